package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

// Storage keeps uploaded product images.
type Storage interface {
	// Save writes the object and returns the URL it is served from.
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
	// Delete removes an object previously returned by Save.
	Delete(ctx context.Context, url string) error
}

// New picks the backend from STORAGE_DRIVER.
func New(config utils.StorageConfig, log *zap.Logger) (Storage, error) {
	switch strings.ToLower(config.Driver) {
	case "", "local":
		log.Info("Using local image storage", zap.String("dir", config.UploadDir))
		return NewLocalStorage(config.UploadDir, "/public")
	case "minio":
		log.Info("Using minio image storage",
			zap.String("endpoint", config.MinioEndpoint),
			zap.String("bucket", config.MinioBucket))
		return NewMinioStorage(context.Background(), config)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", config.Driver)
	}
}

// objectName returns the last path element of a stored URL.
func objectName(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return path.Base(url)
}
