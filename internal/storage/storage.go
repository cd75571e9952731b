// Package storage uploads listing photos to an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"sharebnb/internal/config"
)

// PhotoStore persists photo objects and returns their public URL.
type PhotoStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// New builds the photo store selected by cfg.PhotoBackend.
func New(ctx context.Context, cfg *config.Config) (PhotoStore, error) {
	switch cfg.PhotoBackend {
	case config.PhotoBackendMinio:
		return NewMinioStore(ctx, cfg.MinioEndpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.BucketName, cfg.MinioUseSSL)
	case config.PhotoBackendS3:
		return NewS3Store(ctx, S3Options{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.BucketName,
		})
	default:
		return nil, fmt.Errorf("unknown photo backend %q", cfg.PhotoBackend)
	}
}

// PhotoKey returns a collision-free object key for a listing photo,
// keeping the lowercased extension of the uploaded file name.
func PhotoKey(listingID uint, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	return fmt.Sprintf("listings/%d/%s%s", listingID, uuid.New(), ext)
}
