package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/application/media"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const bucketCheckTimeout = 10 * time.Second

// New builds the backend selected by cfg.Driver. The S3 backend creates the
// default upload bucket when it is missing.
func New(cfg *config.StorageConfig, logger *zap.Logger) (media.ObjectStorage, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		s, err := NewS3ObjectStorage(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if cfg.Bucket != "" {
			ctx, cancel := context.WithTimeout(context.Background(), bucketCheckTimeout)
			defer cancel()
			if err := s.EnsureBucket(ctx, cfg.Bucket); err != nil {
				logger.Warn("Upload bucket is not ready", zap.String("bucket", cfg.Bucket), zap.Error(err))
			}
		}
		return s, nil
	case config.StorageDriverCloudinary:
		c, err := NewCloudinaryObjectStorage(cfg.CloudinaryURL, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.StorageDriverMemory, "":
		return NewMemoryObjectStorage(cfg.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
