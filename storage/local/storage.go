package local

import (
	"context"
)

// Storage persists file content at physical paths chosen by the caller.
type Storage interface {
	Kind() string
	WriteBytes(ctx context.Context, path string, data []byte) error
	WriteText(ctx context.Context, path, text string) error
	// WriteCSV writes each element of groups with a single write-all call,
	// so every group contributes its rows in order.
	WriteCSV(ctx context.Context, path string, groups [][][]string) error
	Read(ctx context.Context, path string) (string, error)
	List(ctx context.Context, dir string) ([]string, error)
	Summary() string
}
