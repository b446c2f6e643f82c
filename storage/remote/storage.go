package remote

import (
	"context"
	"io"
)

// Storage is an object store that mirrors locally written files.
type Storage interface {
	Kind() string
	Start(ctx context.Context) error
	// Upload stores size bytes read from body under key, replacing any
	// existing object.
	Upload(ctx context.Context, key string, size int64, body io.Reader) error
	Close() error
	Summary() string
}
