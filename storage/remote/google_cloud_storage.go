package remote

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/reillywatson/agentfiles/storage/count"
)

func NewGoogleCloudStorageClient(ctx context.Context) (*storage.Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Cloud Storage client: %w", err)
	}
	return client, nil
}

var _ Storage = &GoogleCloudStorage{}

// GoogleCloudStorage is a remote store backed by a Google Cloud Storage bucket
type GoogleCloudStorage struct {
	client     *storage.Client
	bucketName string
	bucket     *storage.BucketHandle
	logger     *zap.Logger
	count.Count
}

// NewGoogleCloudStorage creates a new GoogleCloudStorage instance.
func NewGoogleCloudStorage(client *storage.Client, bucketName string, logger *zap.Logger) *GoogleCloudStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleCloudStorage{
		client:     client,
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
		logger:     logger,
	}
}

func (g *GoogleCloudStorage) objectURL(key string) string {
	return fmt.Sprintf("gs://%s/%s", g.bucketName, key)
}

func (g *GoogleCloudStorage) Kind() string {
	return "gcs"
}

func (g *GoogleCloudStorage) Start(ctx context.Context) error {
	g.logger.Debug("remote storage configured", zap.String("kind", g.Kind()), zap.String("bucket", g.bucketName))
	if _, err := g.bucket.Attrs(ctx); err != nil {
		return fmt.Errorf("[%s] failed to start gs://%s: %w", g.Kind(), g.bucketName, err)
	}
	return nil
}

func (g *GoogleCloudStorage) Upload(ctx context.Context, key string, size int64, body io.Reader) error {
	g.Count.Writes.Add(1)
	writer := g.bucket.Object(key).NewWriter(ctx)

	if _, err := io.Copy(writer, body); err != nil {
		_ = writer.Close()
		g.Count.WriteErrors.Add(1)
		return fmt.Errorf("[%s] put failed for %s (size: %d): %w", g.Kind(), g.objectURL(key), size, err)
	}
	// The object is only committed on Close.
	if err := writer.Close(); err != nil {
		g.Count.WriteErrors.Add(1)
		return fmt.Errorf("[%s] put failed for %s (size: %d): %w", g.Kind(), g.objectURL(key), size, err)
	}

	g.Count.Bytes.Add(size)
	g.logger.Debug("uploaded", zap.String("kind", g.Kind()), zap.String("object", g.objectURL(key)), zap.Int64("size", size))
	return nil
}

func (g *GoogleCloudStorage) Close() error {
	if err := g.client.Close(); err != nil {
		return fmt.Errorf("[%s] close gs://%s (error: %v)", g.Kind(), g.bucketName, err)
	}
	return nil
}

func (g *GoogleCloudStorage) Summary() string {
	return g.Count.Summary(g.Kind())
}
