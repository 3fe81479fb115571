package types

import "fmt"

// Addition pairs a file from the source tree with its entry name in the archive.
type Addition struct {
	SourcePath string // absolute path of the file on disk
	ArcName    string // slash-separated entry name (e.g., "foo-1.0/subprojects/zlib/meson.build")
}

// String returns the source path followed by the entry name.
func (a Addition) String() string {
	return fmt.Sprintf("%s %s", a.SourcePath, a.ArcName)
}
