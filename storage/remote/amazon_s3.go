package remote

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/reillywatson/agentfiles/storage/count"
)

// s3API is the subset of the S3 client used here; tests substitute a fake.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewAmazonS3Client loads the default AWS config. A non-empty endpoint and
// pathStyle allow S3-compatible stores such as MinIO.
func NewAmazonS3Client(ctx context.Context, endpoint string, pathStyle bool) (*s3.Client, error) {
	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	}), nil
}

var _ Storage = &AmazonS3{}

// AmazonS3 is a remote store backed by an Amazon S3 bucket
type AmazonS3 struct {
	s3Client s3API
	bucket   string
	logger   *zap.Logger
	count.Count
}

func NewAmazonS3(client *s3.Client, bucketName string, logger *zap.Logger) *AmazonS3 {
	return newAmazonS3(client, bucketName, logger)
}

func newAmazonS3(client s3API, bucketName string, logger *zap.Logger) *AmazonS3 {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmazonS3{
		s3Client: client,
		bucket:   bucketName,
		logger:   logger,
	}
}

func (a *AmazonS3) Kind() string {
	return "s3"
}

func (a *AmazonS3) Start(context.Context) error {
	a.logger.Debug("remote storage configured", zap.String("kind", a.Kind()), zap.String("bucket", a.bucket))
	return nil
}

func (a *AmazonS3) Upload(ctx context.Context, key string, size int64, body io.Reader) error {
	a.Count.Writes.Add(1)
	if _, err := a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &a.bucket,
		Key:           &key,
		Body:          body,
		ContentLength: &size,
	}, func(options *s3.Options) {
		options.RetryMaxAttempts = 1 // We cannot perform seek in Body
	}); err != nil {
		a.Count.WriteErrors.Add(1)
		if code := apiErrorCode(err); code != "" {
			return fmt.Errorf("[%s] put s3://%s/%s failed (%s): %w", a.Kind(), a.bucket, key, code, err)
		}
		return fmt.Errorf("[%s] put s3://%s/%s failed: %w", a.Kind(), a.bucket, key, err)
	}
	a.Count.Bytes.Add(size)
	a.logger.Debug("uploaded", zap.String("kind", a.Kind()), zap.String("bucket", a.bucket), zap.String("key", key), zap.Int64("size", size))
	return nil
}

func (a *AmazonS3) Close() error {
	return nil
}

func (a *AmazonS3) Summary() string {
	return a.Count.Summary(a.Kind())
}

func apiErrorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}
