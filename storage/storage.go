package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/reillywatson/agentfiles/config"
	"github.com/reillywatson/agentfiles/storage/local"
	"github.com/reillywatson/agentfiles/storage/remote"
)

// New creates the local writer and, when a bucket is configured, the remote
// mirror target. The remote is nil when mirroring is disabled or the backend
// could not be configured.
//
// Storage option:
// 1. only local disk
// 2. Amazon S3 and local disk
// 3. Google Cloud Storage and local disk
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (local.Storage, remote.Storage) {
	disk := local.NewDisk(logger)

	var rs remote.Storage
	switch {
	case cfg.S3Bucket != "":
		s3Client, err := remote.NewAmazonS3Client(ctx, cfg.S3Endpoint, cfg.S3ForcePathStyle)
		if err != nil {
			logger.Warn("Amazon S3 configuration failed", zap.Error(err))
			return disk, nil
		}
		rs = remote.NewAmazonS3(s3Client, cfg.S3Bucket, logger)

	case cfg.GCSBucket != "":
		cloudStorageClient, err := remote.NewGoogleCloudStorageClient(ctx)
		if err != nil {
			logger.Warn("Google Cloud Storage configuration failed", zap.Error(err))
			return disk, nil
		}
		rs = remote.NewGoogleCloudStorage(cloudStorageClient, cfg.GCSBucket, logger)
	default:
		return disk, nil
	}

	if err := rs.Start(ctx); err != nil {
		logger.Warn("remote storage start failed", zap.String("kind", rs.Kind()), zap.Error(err))
		_ = rs.Close()
		return disk, nil
	}
	return disk, rs
}
