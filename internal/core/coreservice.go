package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jo-hoe/schoolbook/internal/backend/database"
	"github.com/jo-hoe/schoolbook/internal/backend/images"
	"github.com/jo-hoe/schoolbook/internal/backend/storage"
	"github.com/jo-hoe/schoolbook/internal/backend/validation"
)

// CoreService wires the record store, the content area, and the image
// pipeline together behind the operations the API and web layers use.
// It is constructed explicitly and passed by reference; there is no
// ambient shared state.
type CoreService struct {
	config   *ServiceConfig
	store    database.RecordStore
	area     storage.ContentArea
	pipeline *images.Pipeline
	gateway  *images.Gateway
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	store, err := database.NewRecordStore(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized", "type", config.Database.Type)

	area, err := storage.NewContentArea(storage.Config{
		Type:          config.Storage.Type,
		Directory:     config.Storage.Directory,
		RedisAddress:  config.Storage.RedisAddress,
		RedisPassword: config.Storage.RedisPassword,
		RedisDB:       config.Storage.RedisDB,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize content area: %w", err)
	}
	slog.Info("content area initialized", "type", config.Storage.Type)

	return &CoreService{
		config: config,
		store:  store,
		area:   area,
		pipeline: images.NewPipeline(area, images.TransformSettings{
			Enabled: config.Image.ResizeEnabled,
			Width:   config.Image.Width,
			Height:  config.Image.Height,
			Quality: config.Image.Quality,
		}),
		gateway: images.NewGateway(area),
	}, nil
}

// AddSchool validates a submission and persists it, returning the new id.
func (service *CoreService) AddSchool(ctx context.Context, submission *validation.Submission) (int64, error) {
	school, err := validation.ValidateSubmission(submission)
	if err != nil {
		return 0, err
	}
	return service.store.CreateSchool(ctx, school)
}

// ListSchools returns all records, newest first. A record whose image
// reference no longer resolves is listed without its image; a broken
// asset never aborts the listing.
func (service *CoreService) ListSchools(ctx context.Context) ([]database.School, error) {
	schools, err := service.store.ListSchools(ctx)
	if err != nil {
		return nil, err
	}
	for i := range schools {
		if schools[i].Image == "" {
			continue
		}
		exists, err := service.area.Exists(ctx, schools[i].Image)
		if err != nil || !exists {
			slog.Warn("ListSchools: image reference does not resolve; degrading to no image",
				"school_id", schools[i].ID, "reference", schools[i].Image, "error", err)
			schools[i].Image = ""
		}
	}
	return schools, nil
}

// UploadImage runs the ingest pipeline for one uploaded file.
func (service *CoreService) UploadImage(ctx context.Context, data []byte, declaredMediaType, originalFilename string) (string, error) {
	return service.pipeline.Ingest(ctx, data, declaredMediaType, originalFilename)
}

// ResolveImage returns asset bytes plus media type for a reference.
func (service *CoreService) ResolveImage(ctx context.Context, reference string) ([]byte, string, error) {
	return service.gateway.Resolve(ctx, reference)
}

// PlaceholderImage returns the PNG shown when a record has no usable image.
func (service *CoreService) PlaceholderImage() ([]byte, error) {
	return service.gateway.Placeholder()
}

func (service *CoreService) Close() error {
	return errors.Join(service.store.Close(), service.area.Close())
}
