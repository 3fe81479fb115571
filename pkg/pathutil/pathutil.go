// Package pathutil normalizes user-supplied paths and maps source files to
// archive entry names.
package pathutil

import (
	"fmt"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// SubprojectsDir is the directory, relative to the archive's top-level
// directory, that injected files are placed under.
const SubprojectsDir = "subprojects"

// envVar matches "$name" and "${name}" references. Braced names may hold any
// character but "}".
var envVar = regexp.MustCompile(`\$(\w+|\{[^}]*\})`)

// Expand expands environment variables and a leading "~", then returns the
// cleaned absolute form of p.
func Expand(p string) (string, error) {
	p = expandEnv(p)

	p, err := expandHome(p)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return abs, nil
}

// expandEnv replaces references to set variables. Unset variables and any
// other "$" text are kept byte for byte.
func expandEnv(p string) string {
	return envVar.ReplaceAllStringFunc(p, func(ref string) string {
		name := strings.TrimPrefix(ref, "$")
		if strings.HasPrefix(name, "{") {
			name = name[1 : len(name)-1]
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return ref
	})
}

// expandHome replaces a leading "~" with the current user's home directory
// and "~name" with that user's. Unknown users are left unchanged.
func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}

	name, rest := p[1:], ""
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name, rest = name[:i], name[i:]
	}

	if name == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", p, err)
		}
		return home + rest, nil
	}

	u, err := user.Lookup(name)
	if err != nil {
		return p, nil
	}
	return u.HomeDir + rest, nil
}

// BaseName returns the archive's file name without its final extension.
// A name whose only dot is the leading one (".zip") is returned as is.
func BaseName(archivePath string) string {
	name := filepath.Base(archivePath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if stem == "" {
		return name
	}
	return stem
}

// ArcName maps file, which must live under root, to its entry name inside the
// archive: the root prefix is replaced by "<base>/subprojects" and separators
// are normalized to "/".
func ArcName(base, root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", fmt.Errorf("mapping %s: %w", file, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("mapping %s: not under %s", file, root)
	}
	return path.Join(base, SubprojectsDir, filepath.ToSlash(rel)), nil
}
