package enum

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/containerd/log"

	"github.com/praetorian-inc/distfix/pkg/pathutil"
	"github.com/praetorian-inc/distfix/pkg/types"
)

// FilesystemEnumerator enumerates files from a filesystem directory.
type FilesystemEnumerator struct {
	config Config
}

// NewFilesystemEnumerator creates a new filesystem enumerator.
func NewFilesystemEnumerator(config Config) *FilesystemEnumerator {
	return &FilesystemEnumerator{config: config}
}

// Enumerate walks the tree depth-first in lexical order and yields one
// addition per file. Symlinks to regular files are yielded and read through
// the link; symlinks to directories are not descended.
func (e *FilesystemEnumerator) Enumerate(ctx context.Context, callback func(add types.Addition) error) error {
	// WalkDir does not descend into a symlinked root, so walk its target and
	// report paths under the root as given.
	walkRoot, err := filepath.EvalSymlinks(e.config.Root)
	if err != nil {
		return err
	}

	return filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			return nil
		}

		ok, err := isRegular(path, d)
		if err != nil {
			return err
		}
		if !ok {
			log.G(ctx).WithField("path", path).Debug("ignoring non-regular file")
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return err
		}
		source := filepath.Join(e.config.Root, rel)

		arcname, err := pathutil.ArcName(e.config.ArchiveBase, e.config.Root, source)
		if err != nil {
			return err
		}

		return callback(types.Addition{SourcePath: source, ArcName: arcname})
	})
}

// Collect runs the enumerator and returns every addition in walk order.
func Collect(ctx context.Context, e Enumerator) ([]types.Addition, error) {
	var adds []types.Addition
	err := e.Enumerate(ctx, func(add types.Addition) error {
		adds = append(adds, add)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adds, nil
}

// isRegular reports whether the entry is a regular file, following symlinks.
func isRegular(path string, d fs.DirEntry) (bool, error) {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", path, err)
	}
	return info.Mode().IsRegular(), nil
}
