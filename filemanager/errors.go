package filemanager

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotImplemented is returned by writers for file types that are
	// recognized but cannot be produced yet (pdf, docx). Nothing is written.
	ErrNotImplemented = errors.New("writer not implemented")
	// ErrNoRemote is returned when a resource is cataloged as REMOTE but no
	// remote storage is configured.
	ErrNoRemote = errors.New("remote storage not configured")
	// ErrNoAgent is returned by operations that need an agent in scope.
	ErrNoAgent = errors.New("no agent in scope")
)

// UnsupportedFileTypeError is returned when a file name's extension has no writer.
type UnsupportedFileTypeError struct {
	Type string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s. cannot save the file", e.Type)
}

// IsErrorMessage reports whether s, as returned by one of the FileManager
// write or read operations, describes a failure.
func IsErrorMessage(s string) bool {
	return strings.HasPrefix(s, "Error ")
}

func errorMessage(op string, err error) string {
	return fmt.Sprintf("Error %s: %v", op, err)
}
