package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reillywatson/agentfiles/agent"
)

func TestFormatName(t *testing.T) {
	assert.Equal(t, "market_research_12", FormatName("Market Research", 12))
	assert.Equal(t, "a_b_c_3", FormatName("a/b\\c", 3))
	assert.Equal(t, "5", FormatName("  ", 5))
}

func TestParseStorageType(t *testing.T) {
	st, err := ParseStorageType("remote")
	require.NoError(t, err)
	assert.Equal(t, Remote, st)

	st, err = ParseStorageType("LOCAL")
	require.NoError(t, err)
	assert.Equal(t, Local, st)

	_, err = ParseStorageType("S3")
	assert.Error(t, err)
}

func TestGenericPath(t *testing.T) {
	root := filepath.Join(t.TempDir(), "output")
	r := NewPathResolver(root, filepath.Join(root, "{agent_id}", "{agent_execution_id}"))

	dir, err := r.Generic("")
	require.NoError(t, err)
	assert.Equal(t, root, dir)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "empty name must not create the directory")

	p, err := r.Generic("reports/summary.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "reports", "summary.txt"), p)
	fi, err := os.Stat(filepath.Dir(p))
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestScopedPath(t *testing.T) {
	root := t.TempDir()
	r := NewPathResolver(root, filepath.Join(root, "{agent_id}", "{agent_execution_id}"))
	a := agent.Agent{ID: 1, Name: "Writer"}

	p, err := r.Scoped("out.csv", a, &agent.Execution{ID: 9, AgentID: 1, Name: "Run"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "writer_1", "run_9", "out.csv"), p)

	dir, err := r.Scoped("", a, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "writer_1"), dir)
}

func TestRejectsEscapingNames(t *testing.T) {
	r := NewPathResolver(t.TempDir(), "")
	for _, name := range []string{"../etc/passwd", "a/../../b", "/abs.txt"} {
		_, err := r.Generic(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}
