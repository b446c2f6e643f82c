package filemanager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reillywatson/agentfiles/metrics"
	"github.com/reillywatson/agentfiles/resource"
)

// mirror catalogs the file at path and uploads it when its record is REMOTE.
func (fm *FileManager) mirror(ctx context.Context, name, path string) error {
	if fm.catalog == nil {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}

	a, e, err := fm.owners(ctx)
	if err != nil {
		return err
	}
	res, err := fm.catalog.MakeOrGet(ctx, name, path, a, e)
	if err != nil {
		return err
	}
	if res.StorageType != resource.Remote {
		return nil
	}
	if fm.remote == nil {
		return fmt.Errorf("%s: %w", name, ErrNoRemote)
	}

	kind := fm.remote.Kind()
	if err := fm.remote.Upload(ctx, res.Path, fi.Size(), f); err != nil {
		metrics.UploadErrors.WithLabelValues(kind).Inc()
		return err
	}
	metrics.Uploads.WithLabelValues(kind).Inc()
	fm.logger.Debug("mirrored", zap.String("file", name), zap.String("backend", kind), zap.String("key", res.Path))
	return nil
}

// MirrorAll mirrors every regular file in the scope's resource directory,
// e.g. to catch up after the remote store was unreachable. Hidden files are
// skipped. The first failure cancels the remaining uploads.
func (fm *FileManager) MirrorAll(ctx context.Context) error {
	dir, err := fm.resolve(ctx, "")
	if err != nil {
		return err
	}
	names, err := fm.local.List(ctx, dir)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fm.mirrorConcurrency)
	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			continue
		}
		name := name
		path := filepath.Join(dir, name)
		g.Go(func() error {
			fi, err := os.Lstat(path)
			if err != nil {
				return err
			}
			if !fi.Mode().IsRegular() {
				return nil
			}
			if err := fm.mirror(ctx, name, path); err != nil {
				return fmt.Errorf("mirror %s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
