package inject

import (
	"errors"

	"github.com/praetorian-inc/distfix/pkg/archive"
)

var (
	// ErrInputNotFound is returned when the archive or the files directory
	// does not exist, or the files path is not a directory.
	ErrInputNotFound = errors.New("input not found")

	// ErrArchiveFormat is returned when the archive is not a readable zip file.
	ErrArchiveFormat = archive.ErrArchiveFormat
)
