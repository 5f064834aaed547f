package images

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/jo-hoe/schoolbook/internal/backend/storage"
)

// MaxAssetBytes is the upload size ceiling, checked before anything is
// written to the content area.
const MaxAssetBytes = 5 << 20 // 5 MiB

// resizedPrefix marks assets that went through the transform stage.
const resizedPrefix = "resized-"

var (
	// ErrInvalidMediaType reports a declared media type outside image/*.
	ErrInvalidMediaType = errors.New("only image files are allowed")
	// ErrPayloadTooLarge reports an upload exceeding MaxAssetBytes.
	ErrPayloadTooLarge = errors.New("image exceeds the maximum allowed size")
	// ErrTransform reports a decode/resize/encode failure. Any asset
	// written before the failure has been cleaned up by the time this
	// surfaces.
	ErrTransform = errors.New("image transform failed")
)

// TransformSettings controls the optional resize stage of the pipeline.
type TransformSettings struct {
	Enabled bool
	Width   int
	Height  int
	Quality int
}

// Pipeline ingests uploaded images: it validates them, assigns a
// collision-resistant name, optionally resizes, and persists exactly one
// asset per successful call (zero on any failure path).
type Pipeline struct {
	area     storage.ContentArea
	settings TransformSettings
}

func NewPipeline(area storage.ContentArea, settings TransformSettings) *Pipeline {
	if settings.Width <= 0 {
		settings.Width = 400
	}
	if settings.Height <= 0 {
		settings.Height = 300
	}
	if settings.Quality <= 0 {
		settings.Quality = 85
	}
	return &Pipeline{
		area:     area,
		settings: settings,
	}
}

// Ingest validates and stores one uploaded image, returning the reference
// under which it can be resolved later.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, declaredMediaType, originalFilename string) (string, error) {
	// Both checks run before any storage write.
	if !strings.HasPrefix(declaredMediaType, "image/") {
		return "", fmt.Errorf("%w: got %q", ErrInvalidMediaType, declaredMediaType)
	}
	if len(data) > MaxAssetBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(data), MaxAssetBytes)
	}

	name := newAssetName(originalFilename)

	if !p.settings.Enabled {
		if err := p.area.Put(ctx, name, data); err != nil {
			return "", fmt.Errorf("failed to store image: %w", err)
		}
		slog.Info("Ingest: stored image", "reference", name, "size_bytes", len(data))
		return name, nil
	}

	return p.ingestTransformed(ctx, data, name)
}

// ingestTransformed mirrors the original upload flow: the raw file is
// written first, then resized into its final form and the raw file is
// discarded. Every failure after the first write removes what was written.
func (p *Pipeline) ingestTransformed(ctx context.Context, data []byte, name string) (string, error) {
	if err := p.area.Put(ctx, name, data); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	transformed, err := coverResize(data, p.settings.Width, p.settings.Height, p.settings.Quality)
	if err != nil {
		p.discard(ctx, name)
		return "", fmt.Errorf("%w: %v", ErrTransform, err)
	}

	resizedName := resizedPrefix + name
	if err := p.area.Put(ctx, resizedName, transformed); err != nil {
		p.discard(ctx, name)
		return "", fmt.Errorf("failed to store resized image: %w", err)
	}

	if err := p.area.Delete(ctx, name); err != nil {
		// Keeping both copies would break the one-asset-per-ingest
		// invariant, so the resized copy goes too and the ingest fails.
		p.discard(ctx, resizedName)
		return "", fmt.Errorf("failed to discard original after resize: %w", err)
	}

	slog.Info("Ingest: stored resized image",
		"reference", resizedName,
		"original_size_bytes", len(data),
		"resized_size_bytes", len(transformed))
	return resizedName, nil
}

func (p *Pipeline) discard(ctx context.Context, reference string) {
	if err := p.area.Delete(ctx, reference); err != nil {
		slog.Warn("Ingest: failed to clean up asset", "reference", reference, "error", err)
	}
}

// newAssetName builds `<unix-millis>-<random int in [0,1e9))<ext>`. The
// extension is taken verbatim from the original filename. Uniqueness is
// probabilistic, not coordinated; a collision is accepted as practically
// impossible.
func newAssetName(originalFilename string) string {
	return fmt.Sprintf("%d-%d%s",
		time.Now().UnixMilli(),
		rand.Int64N(1_000_000_000),
		filepath.Ext(originalFilename))
}
