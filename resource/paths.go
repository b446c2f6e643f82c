package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reillywatson/agentfiles/agent"
)

// ErrInvalidName is returned for absolute names or names that climb out of
// the resource directory.
var ErrInvalidName = errors.New("invalid file name")

const (
	agentPlaceholder     = "{agent_id}"
	executionPlaceholder = "{agent_execution_id}"
)

// Resolver maps a file name to a physical path. An empty name yields the
// resource directory itself.
type Resolver interface {
	Scoped(name string, a agent.Agent, e *agent.Execution) (string, error)
	Generic(name string) (string, error)
}

var _ Resolver = &PathResolver{}

// PathResolver resolves generic names under a shared root and scoped names
// under a directory template containing {agent_id} and {agent_execution_id}.
type PathResolver struct {
	root     string
	template string
}

func NewPathResolver(root, agentTemplate string) *PathResolver {
	return &PathResolver{root: root, template: agentTemplate}
}

func (p *PathResolver) Generic(name string) (string, error) {
	return join(p.root, name)
}

func (p *PathResolver) Scoped(name string, a agent.Agent, e *agent.Execution) (string, error) {
	return join(p.agentDir(a, e), name)
}

func (p *PathResolver) agentDir(a agent.Agent, e *agent.Execution) string {
	dir := strings.ReplaceAll(p.template, agentPlaceholder, FormatName(a.Name, a.ID))
	execSegment := ""
	if e != nil {
		execSegment = FormatName(e.Name, e.ID)
	}
	return strings.ReplaceAll(dir, executionPlaceholder, execSegment)
}

func join(dir, name string) (string, error) {
	dir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return "", err
	}
	if name == "" {
		return dir, nil
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	for _, part := range strings.FieldsFunc(name, isSeparator) {
		if part == ".." {
			return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
		}
	}
	full := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	return full, nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
