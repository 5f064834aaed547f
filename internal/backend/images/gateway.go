package images

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jo-hoe/schoolbook/internal/backend/storage"
)

// CacheControl is advertised on successfully resolved assets; references
// are content-addressed by generation time and salt and never reused, so
// responses are cacheable indefinitely.
const CacheControl = "public, max-age=31536000, immutable"

const defaultMediaType = "image/jpeg"

var mediaTypesByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Gateway resolves stored references back to bytes plus a media type for
// serving.
type Gateway struct {
	area        storage.ContentArea
	placeholder placeholderCache
}

func NewGateway(area storage.ContentArea) *Gateway {
	return &Gateway{area: area}
}

// Resolve returns the asset bytes and media type for a reference.
// A malformed reference yields storage.ErrBadReference, an unknown one
// storage.ErrNotFound.
func (g *Gateway) Resolve(ctx context.Context, reference string) ([]byte, string, error) {
	if err := storage.ValidateReference(reference); err != nil {
		return nil, "", err
	}

	data, err := g.area.Get(ctx, reference)
	if err != nil {
		return nil, "", err
	}
	return data, MediaTypeForReference(reference), nil
}

// MediaTypeForReference maps a reference's extension to a media type;
// unknown extensions default to image/jpeg.
func MediaTypeForReference(reference string) string {
	ext := strings.ToLower(filepath.Ext(reference))
	if mediaType, ok := mediaTypesByExtension[ext]; ok {
		return mediaType
	}
	return defaultMediaType
}
