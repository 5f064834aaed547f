package backend

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jo-hoe/schoolbook/internal/backend/images"
	"github.com/jo-hoe/schoolbook/internal/backend/storage"
	"github.com/jo-hoe/schoolbook/internal/backend/validation"
	"github.com/jo-hoe/schoolbook/internal/core"
)

// placeholderCacheControl keeps the generated placeholder cacheable for a
// week; unlike ingested assets it is not immutable across releases.
const placeholderCacheControl = "public, max-age=604800"

type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
	}
}

func (service *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.POST("/upload-image", service.uploadImageHandler)
	e.POST("/schools", service.createSchoolHandler)
	e.GET("/schools", service.listSchoolsHandler)
	e.GET("/images/placeholder", service.placeholderHandler)
	e.GET("/images/:reference", service.serveImageHandler)
}

func (service *APIService) uploadImageHandler(ctx echo.Context) error {
	file, err := ctx.FormFile("image")
	if err != nil {
		slog.Warn("uploadImageHandler: no file in request",
			"status", http.StatusBadRequest, "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]any{"error": "No file uploaded"})
	}

	src, err := file.Open()
	if err != nil {
		slog.Error("uploadImageHandler: failed to open uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.JSON(http.StatusInternalServerError, map[string]any{"error": "Failed to open uploaded file"})
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			slog.Error("uploadImageHandler: failed to close uploaded file reader",
				"error", closeErr, "filename", file.Filename)
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		slog.Error("uploadImageHandler: failed to read uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return ctx.JSON(http.StatusInternalServerError, map[string]any{"error": "Failed to read uploaded file"})
	}

	reference, err := service.coreService.UploadImage(
		ctx.Request().Context(), data, file.Header.Get("Content-Type"), file.Filename)
	if err != nil {
		return service.respondUploadError(ctx, err, file.Filename)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"reference":    reference,
		"imagePath":    "/images/" + reference,
		"originalName": file.Filename,
	})
}

func (service *APIService) respondUploadError(ctx echo.Context, err error, filename string) error {
	switch {
	case errors.Is(err, images.ErrInvalidMediaType):
		slog.Warn("uploadImageHandler: rejected media type",
			"status", http.StatusBadRequest, "filename", filename, "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]any{"error": "Only image files are allowed!"})
	case errors.Is(err, images.ErrPayloadTooLarge):
		slog.Warn("uploadImageHandler: rejected oversized upload",
			"status", http.StatusRequestEntityTooLarge, "filename", filename, "error", err)
		return ctx.JSON(http.StatusRequestEntityTooLarge, map[string]any{"error": "Image exceeds the 5 MB limit"})
	default:
		slog.Error("uploadImageHandler: upload failed",
			"status", http.StatusInternalServerError, "filename", filename, "error", err)
		return ctx.JSON(http.StatusInternalServerError, map[string]any{"error": "Upload failed"})
	}
}

func (service *APIService) createSchoolHandler(ctx echo.Context) error {
	var submission validation.Submission
	if err := ctx.Bind(&submission); err != nil {
		slog.Warn("createSchoolHandler: failed to bind request body",
			"status", http.StatusBadRequest, "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid request body"})
	}

	id, err := service.coreService.AddSchool(ctx.Request().Context(), &submission)
	if err != nil {
		var validationError *validation.ValidationError
		if errors.As(err, &validationError) {
			slog.Warn("createSchoolHandler: validation failed",
				"status", http.StatusBadRequest,
				"missing_fields", validationError.MissingFields,
				"invalid_fields", validationError.InvalidFields)
			return ctx.JSON(http.StatusBadRequest, map[string]any{
				"error":          "Validation failed",
				"missing_fields": validationError.MissingFields,
				"invalid_fields": validationError.InvalidFields,
			})
		}
		slog.Error("createSchoolHandler: failed to create school",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, map[string]any{"error": "Failed to add school"})
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"id":      id,
		"message": "School added successfully!",
	})
}

func (service *APIService) listSchoolsHandler(ctx echo.Context) error {
	schools, err := service.coreService.ListSchools(ctx.Request().Context())
	if err != nil {
		slog.Error("listSchoolsHandler: failed to list schools",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, map[string]any{"error": "Failed to fetch schools"})
	}
	return ctx.JSON(http.StatusOK, schools)
}

func (service *APIService) serveImageHandler(ctx echo.Context) error {
	reference := ctx.Param("reference")

	data, mediaType, err := service.coreService.ResolveImage(ctx.Request().Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrBadReference):
			slog.Warn("serveImageHandler: malformed reference",
				"status", http.StatusBadRequest, "reference", reference)
			return ctx.JSON(http.StatusBadRequest, map[string]any{"error": "Filename required"})
		case errors.Is(err, storage.ErrNotFound):
			slog.Warn("serveImageHandler: image not found",
				"status", http.StatusNotFound, "reference", reference)
			return ctx.JSON(http.StatusNotFound, map[string]any{"error": "Image not found"})
		default:
			slog.Error("serveImageHandler: failed to resolve image",
				"status", http.StatusInternalServerError, "reference", reference, "error", err)
			return ctx.JSON(http.StatusInternalServerError, map[string]any{"error": "Failed to serve image"})
		}
	}

	ctx.Response().Header().Set("Cache-Control", images.CacheControl)
	return ctx.Blob(http.StatusOK, mediaType, data)
}

func (service *APIService) placeholderHandler(ctx echo.Context) error {
	data, err := service.coreService.PlaceholderImage()
	if err != nil {
		slog.Error("placeholderHandler: failed to render placeholder",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, map[string]any{"error": "Failed to serve image"})
	}
	ctx.Response().Header().Set("Cache-Control", placeholderCacheControl)
	return ctx.Blob(http.StatusOK, "image/png", data)
}
