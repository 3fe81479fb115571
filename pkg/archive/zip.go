// Package archive appends entries to an existing zip archive.
//
// Entries already in the archive are carried over in their raw compressed
// form, so their bytes, headers and order are never rewritten. New entries
// are stored uncompressed. Changes are staged in a temporary file next to the
// archive and only replace it on Commit; an archive that is closed without a
// successful Commit is left untouched.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// ErrArchiveFormat is returned when the archive cannot be read as a zip file.
var ErrArchiveFormat = errors.New("not a valid zip archive")

// ZipArchive is an existing zip file opened for appending.
//
// A ZipArchive assumes exclusive access to its path for its whole lifetime.
type ZipArchive struct {
	path   string // as given to Open
	target string // path with symlinks resolved; the file that is updated
	info   fs.FileInfo

	src *os.File
	r   *zip.Reader

	tmp *os.File
	w   *zip.Writer

	names     []string
	committed bool
	closed    bool
}

// Open opens the zip archive at path and copies its existing entries into a
// staging file. Symlinks are followed and the archive they point to is the one
// updated. The archive must be writable. Callers must call Close on every
// path, typically deferred.
func Open(path string) (*ZipArchive, error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrArchiveFormat, path)
	}

	src, err := os.OpenFile(target, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	r, err := zip.NewReader(src, info.Size())
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrArchiveFormat, path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".distfix-*")
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}

	a := &ZipArchive{
		path:   path,
		target: target,
		info:   info,
		src:    src,
		r:      r,
		tmp:    tmp,
		w:      zip.NewWriter(tmp),
	}

	if err := a.copyExisting(); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// copyExisting carries the current entries and comment over to the staging file.
func (a *ZipArchive) copyExisting() error {
	a.names = make([]string, 0, len(a.r.File))
	for _, f := range a.r.File {
		if err := a.w.Copy(f); err != nil {
			return fmt.Errorf("copying entry %s: %w", f.Name, err)
		}
		a.names = append(a.names, f.Name)
	}

	if a.r.Comment != "" {
		if err := a.w.SetComment(a.r.Comment); err != nil {
			return fmt.Errorf("copying archive comment: %w", err)
		}
	}
	return nil
}

// Path returns the archive's path.
func (a *ZipArchive) Path() string {
	return a.path
}

// Names returns the entry names the archive held when it was opened, in
// archive order. Entries added since are not included.
func (a *ZipArchive) Names() []string {
	names := make([]string, len(a.names))
	copy(names, a.names)
	return names
}

// Add appends a stored entry named name with the content of src. Mode and
// modification time are taken from info.
func (a *ZipArchive) Add(name string, info fs.FileInfo, src io.Reader) error {
	if a.closed {
		return os.ErrClosed
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", name, err)
	}
	hdr.Name = name
	hdr.Method = zip.Store

	w, err := a.w.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// AddFile appends the file at path as entry name, following symlinks.
func (a *ZipArchive) AddFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return a.Add(name, info, f)
}

// Commit writes the central directory and replaces the original archive with
// the staged one. Mode and, where the platform allows, ownership are kept.
func (a *ZipArchive) Commit() error {
	if a.closed {
		return os.ErrClosed
	}

	if err := a.w.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}

	// A rename would detach the other names of a hard-linked archive.
	if linkCount(a.info) > 1 {
		return a.writeBack()
	}

	if err := a.tmp.Sync(); err != nil {
		return fmt.Errorf("syncing archive: %w", err)
	}
	if err := a.tmp.Chmod(a.info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting archive mode: %w", err)
	}
	copyOwner(a.tmp, a.info)
	if err := a.tmp.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	a.src.Close()

	if err := os.Rename(a.tmp.Name(), a.target); err != nil {
		os.Remove(a.tmp.Name())
		a.closed = true
		return fmt.Errorf("replacing archive: %w", err)
	}

	a.committed = true
	a.closed = true
	return nil
}

// writeBack copies the staged archive over the original file's contents.
func (a *ZipArchive) writeBack() error {
	if _, err := a.tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding staging file: %w", err)
	}
	if _, err := a.src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding archive: %w", err)
	}
	n, err := io.Copy(a.src, a.tmp)
	if err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	if err := a.src.Truncate(n); err != nil {
		return fmt.Errorf("truncating archive: %w", err)
	}
	if err := a.src.Sync(); err != nil {
		return fmt.Errorf("syncing archive: %w", err)
	}

	if err := a.Close(); err != nil {
		return err
	}
	a.committed = true
	return nil
}

// Close releases the archive. Without a prior successful Commit the staged
// changes are discarded and the original archive is left as it was.
func (a *ZipArchive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	a.src.Close()
	a.tmp.Close()
	if err := os.Remove(a.tmp.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing staging file: %w", err)
	}
	return nil
}
