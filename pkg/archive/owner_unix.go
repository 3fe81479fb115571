//go:build unix

package archive

import (
	"io/fs"
	"os"
	"syscall"
)

// copyOwner gives f the owner and group recorded in info. Failures are
// ignored; an unprivileged user can only keep ownership it already has.
func copyOwner(f *os.File, info fs.FileInfo) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		f.Chown(int(st.Uid), int(st.Gid))
	}
}

// linkCount returns the number of hard links to the file described by info.
func linkCount(info fs.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Nlink)
	}
	return 1
}
