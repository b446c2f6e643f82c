// Package resource resolves logical file names to paths on disk and keeps a
// catalog of the files agents have written, including where each one is
// stored.
package resource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/reillywatson/agentfiles/agent"
)

// StorageType says where the authoritative copy of a resource lives.
type StorageType string

const (
	Local  StorageType = "LOCAL"
	Remote StorageType = "REMOTE"
)

// ParseStorageType accepts LOCAL or REMOTE in any case.
func ParseStorageType(s string) (StorageType, error) {
	switch StorageType(strings.ToUpper(strings.TrimSpace(s))) {
	case Local:
		return Local, nil
	case Remote:
		return Remote, nil
	default:
		return "", fmt.Errorf("unknown storage type %q", s)
	}
}

// Resource is the catalog record for one written file.
type Resource struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	StorageType StorageType `json:"storage_type"`
	AgentID     int64       `json:"agent_id,omitempty"`
	ExecutionID int64       `json:"execution_id,omitempty"`
	ContentType string      `json:"content_type,omitempty"`
	Size        int64       `json:"size"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Catalog records and looks up resources.
type Catalog interface {
	// MakeOrGet returns the record for name within the agent/execution scope,
	// creating it on first use. localPath is the file just written; its size
	// and content type are refreshed on every call.
	MakeOrGet(ctx context.Context, name, localPath string, a *agent.Agent, e *agent.Execution) (Resource, error)
	List(ctx context.Context) ([]Resource, error)
	Close() error
}

// FormatName renders an agent or execution as a path segment: the sanitized
// name followed by the id, e.g. "market_research_12".
func FormatName(name string, id int64) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '.':
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%s_%d", name, id)
}
