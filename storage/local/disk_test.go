package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWriteTextOverwrites(t *testing.T) {
	ctx := context.Background()
	d := NewDisk(zaptest.NewLogger(t))
	p := filepath.Join(t.TempDir(), "note.txt")

	require.NoError(t, d.WriteText(ctx, p, "a much longer first version"))
	require.NoError(t, d.WriteText(ctx, p, "short"))

	got, err := d.Read(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "short", got)

	fi, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())
}

func TestWriteBytes(t *testing.T) {
	ctx := context.Background()
	d := NewDisk(nil)
	p := filepath.Join(t.TempDir(), "blob.bin")
	data := []byte{0x00, 0xff, 0x10, 0x0a}

	require.NoError(t, d.WriteBytes(ctx, p, data))
	got, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, int64(4), d.Count.Bytes.Load())
}

func TestWriteCSVUsesNewlineOnly(t *testing.T) {
	ctx := context.Background()
	d := NewDisk(nil)
	p := filepath.Join(t.TempDir(), "rows.csv")

	groups := [][][]string{
		{{"a", "b"}},
		{{"c", "d,e"}, {"f", "g"}},
	}
	require.NoError(t, d.WriteCSV(ctx, p, groups))

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "a,b\nc,\"d,e\"\nf,g\n", string(got))
	assert.NotContains(t, string(got), "\r")
}

func TestWriteIntoMissingDirectoryFails(t *testing.T) {
	d := NewDisk(nil)
	err := d.WriteText(context.Background(), filepath.Join(t.TempDir(), "missing", "x.txt"), "x")
	assert.Error(t, err)
	assert.Equal(t, int64(1), d.Count.WriteErrors.Load())
}

func TestListLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	d := NewDisk(nil)
	dir := t.TempDir()
	require.NoError(t, d.WriteText(ctx, filepath.Join(dir, "b.txt"), "b"))
	require.NoError(t, d.WriteText(ctx, filepath.Join(dir, "a.txt"), "a"))

	names, err := d.List(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, names)

	_, err = d.List(ctx, filepath.Join(dir, "nope"))
	assert.Error(t, err)
}

func TestReadMissing(t *testing.T) {
	d := NewDisk(nil)
	_, err := d.Read(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, d.Summary(), "[disk] 1 reads, 1 errors")
}
