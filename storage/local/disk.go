package local

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/reillywatson/agentfiles/storage/count"
)

var _ Storage = &Disk{}

// Disk is a Storage that writes straight to the local filesystem.
type Disk struct {
	logger *zap.Logger
	count.Count
}

func NewDisk(logger *zap.Logger) *Disk {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Disk{logger: logger}
}

func (d *Disk) Kind() string {
	return "disk"
}

func (d *Disk) WriteBytes(_ context.Context, path string, data []byte) error {
	return d.put(path, bytes.NewReader(data))
}

func (d *Disk) WriteText(_ context.Context, path, text string) error {
	return d.put(path, strings.NewReader(text))
}

func (d *Disk) WriteCSV(_ context.Context, path string, groups [][][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, group := range groups {
		if err := w.WriteAll(group); err != nil {
			d.Count.WriteErrors.Add(1)
			return err
		}
	}
	return d.put(path, &buf)
}

func (d *Disk) Read(_ context.Context, path string) (string, error) {
	d.Count.Reads.Add(1)
	b, err := os.ReadFile(path)
	if err != nil {
		d.Count.ReadErrors.Add(1)
		return "", err
	}
	return string(b), nil
}

// List returns the names of the entries in dir, sorted.
func (d *Disk) List(_ context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (d *Disk) Summary() string {
	return d.Count.Summary(d.Kind())
}

func (d *Disk) put(path string, r io.Reader) error {
	d.Count.Writes.Add(1)
	size, err := writeAtomic(path, r)
	if err != nil {
		d.Count.WriteErrors.Add(1)
		return err
	}
	d.Count.Bytes.Add(size)
	d.logger.Debug("wrote file", zap.String("path", path), zap.Int64("size", size))
	return nil
}

func writeTempFile(dest string, r io.Reader) (_ string, size int64, err error) {
	tf, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return "", 0, err
	}
	fileName := tf.Name()
	defer func() {
		if cerr := tf.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(fileName)
		}
	}()
	if err = tf.Chmod(0o644); err != nil {
		return "", 0, err
	}
	size, err = io.Copy(tf, r)
	if err != nil {
		return "", 0, err
	}
	return fileName, size, nil
}

// writeAtomic replaces dest with the content of r. Readers see either the old
// file or the new one, never a partial write.
func writeAtomic(dest string, r io.Reader) (int64, error) {
	tempFile, size, err := writeTempFile(dest, r)
	if err != nil {
		return 0, err
	}
	if err := os.Rename(tempFile, dest); err != nil {
		_ = os.Remove(tempFile)
		return 0, err
	}
	return size, nil
}
