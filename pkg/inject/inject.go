// Package inject adds a dependency-override tree to a release zip archive.
//
// Files under the source directory are appended to the archive below
// "<archive-base-name>/subprojects", mirroring their position in the tree.
// A file is skipped, with a diagnostic line, when its entry name is already
// present in the archive. Re-running against the same archive therefore
// adds nothing.
//
// The set of existing names is read once, before anything is written. Two
// source files that map to the same entry name in a single run are both
// appended.
package inject

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/containerd/log"

	"github.com/praetorian-inc/distfix/pkg/archive"
	"github.com/praetorian-inc/distfix/pkg/enum"
	"github.com/praetorian-inc/distfix/pkg/pathutil"
	"github.com/praetorian-inc/distfix/pkg/types"
)

// Injector appends source trees to existing archives.
type Injector struct {
	out io.Writer
}

// New creates an Injector that writes skip diagnostics to out.
func New(out io.Writer) *Injector {
	if out == nil {
		out = io.Discard
	}
	return &Injector{out: out}
}

// Inject appends every file under filesPath to the archive at archivePath.
// Both paths are expanded with pathutil.Expand first. Any I/O failure aborts
// the run and leaves the archive unchanged.
func (i *Injector) Inject(ctx context.Context, archivePath, filesPath string) (*types.Result, error) {
	archivePath, err := pathutil.Expand(archivePath)
	if err != nil {
		return nil, err
	}
	filesPath, err = pathutil.Expand(filesPath)
	if err != nil {
		return nil, err
	}

	if err := checkInput("archive", archivePath, false); err != nil {
		return nil, err
	}
	if err := checkInput("files directory", filesPath, true); err != nil {
		return nil, err
	}

	enumerator := enum.NewFilesystemEnumerator(enum.Config{
		Root:        filesPath,
		ArchiveBase: pathutil.BaseName(archivePath),
	})
	additions, err := enum.Collect(ctx, enumerator)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", filesPath, err)
	}

	return i.Append(ctx, archivePath, additions)
}

// Append writes additions to the archive at archivePath in order, skipping
// those whose entry name the archive already held when it was opened.
func (i *Injector) Append(ctx context.Context, archivePath string, additions []types.Addition) (*types.Result, error) {
	a, err := archive.Open(archivePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: archive %s", ErrInputNotFound, archivePath)
		}
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer a.Close()

	// Snapshot of the names present before this run; not updated below.
	existing := make(map[string]struct{})
	for _, name := range a.Names() {
		existing[name] = struct{}{}
	}

	result := &types.Result{}
	for _, add := range additions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, ok := existing[add.ArcName]; ok {
			fmt.Fprintf(i.out, "skipping: %s\n", add)
			result.Skipped = append(result.Skipped, add)
			continue
		}

		if err := a.AddFile(add.ArcName, add.SourcePath); err != nil {
			return nil, err
		}
		result.Added = append(result.Added, add)

		log.G(ctx).WithFields(log.Fields{
			"source":  add.SourcePath,
			"arcname": add.ArcName,
		}).Debug("appended entry")
	}

	// Nothing to write; the deferred Close leaves the archive as it was.
	if len(result.Added) == 0 {
		return result, nil
	}

	if err := a.Commit(); err != nil {
		return nil, err
	}

	log.G(ctx).WithFields(log.Fields{
		"archive": archivePath,
		"added":   len(result.Added),
		"skipped": len(result.Skipped),
	}).Info("archive updated")

	return result, nil
}

// checkInput verifies that path exists and, when wantDir is set, is a directory.
func checkInput(kind, path string, wantDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s %s", ErrInputNotFound, kind, path)
		}
		return fmt.Errorf("checking %s %s: %w", kind, path, err)
	}
	if wantDir && !info.IsDir() {
		return fmt.Errorf("%w: %s %s is not a directory", ErrInputNotFound, kind, path)
	}
	return nil
}
