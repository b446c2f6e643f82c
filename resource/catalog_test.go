package resource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reillywatson/agentfiles/agent"
)

func openCatalog(t *testing.T, st StorageType) *BadgerCatalog {
	t.Helper()
	c, err := OpenBadgerCatalog("", st, "resources")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestMakeOrGetLocal(t *testing.T) {
	ctx := context.Background()
	c := openCatalog(t, Local)
	p := writeFile(t, "hello")

	res, err := c.MakeOrGet(ctx, "f.txt", p, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Local, res.StorageType)
	assert.Equal(t, p, res.Path)
	assert.Equal(t, int64(5), res.Size)
	assert.Contains(t, res.ContentType, "text/plain")
	assert.NotEmpty(t, res.ID)
}

func TestMakeOrGetRemoteKeyAndReuse(t *testing.T) {
	ctx := context.Background()
	c := openCatalog(t, Remote)
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c.now = func() time.Time { return clock }

	a := &agent.Agent{ID: 3, Name: "Coder"}
	e := &agent.Execution{ID: 4, AgentID: 3, Name: "first"}
	p := writeFile(t, "x")

	first, err := c.MakeOrGet(ctx, "main.go.txt", p, a, e)
	require.NoError(t, err)
	assert.Equal(t, Remote, first.StorageType)
	assert.Equal(t, "resources/coder_3/first_4/main.go.txt", first.Path)

	require.NoError(t, os.WriteFile(p, []byte("longer"), 0o644))
	clock = clock.Add(time.Minute)
	second, err := c.MakeOrGet(ctx, "main.go.txt", p, a, e)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, int64(6), second.Size)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMakeOrGetScopesAreDistinct(t *testing.T) {
	ctx := context.Background()
	c := openCatalog(t, Local)
	p := writeFile(t, "x")

	_, err := c.MakeOrGet(ctx, "a.txt", p, nil, nil)
	require.NoError(t, err)
	_, err = c.MakeOrGet(ctx, "a.txt", p, &agent.Agent{ID: 1}, nil)
	require.NoError(t, err)

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMakeOrGetMissingFile(t *testing.T) {
	c := openCatalog(t, Local)
	_, err := c.MakeOrGet(context.Background(), "nope.txt", filepath.Join(t.TempDir(), "nope.txt"), nil, nil)
	assert.Error(t, err)
}
