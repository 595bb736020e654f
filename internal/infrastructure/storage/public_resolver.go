package storage

import (
	"context"
	"strings"

	catalogapp "github.com/mall/backend/internal/application/catalog"
	"github.com/mall/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ catalogapp.ImageURLResolver = (*PublicURLResolver)(nil)

// PublicURLResolver joins image keys onto a public base URL. It is used in
// development and whenever object storage is disabled.
type PublicURLResolver struct {
	baseURL string
}

// NewPublicURLResolver creates a resolver for baseURL. An empty base returns keys as-is.
func NewPublicURLResolver(baseURL string) *PublicURLResolver {
	return &PublicURLResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve implements catalogapp.ImageURLResolver
func (r *PublicURLResolver) Resolve(_ context.Context, key string) string {
	if key == "" || isAbsoluteURL(key) || r.baseURL == "" {
		return key
	}
	return r.baseURL + "/" + strings.TrimPrefix(key, "/")
}

// NewImageURLResolver picks the S3 resolver when storage is enabled
func NewImageURLResolver(cfg *config.StorageConfig, logger *zap.Logger) (catalogapp.ImageURLResolver, error) {
	if !cfg.Enabled {
		return NewPublicURLResolver(cfg.PublicBaseURL), nil
	}
	return NewS3ImageResolver(cfg, WithLogger(logger.Named("storage")))
}
