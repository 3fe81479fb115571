package pathutil

import (
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_EnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DISTFIX_TEST_DIR", dir)

	got, err := Expand("$DISTFIX_TEST_DIR/dist/foo.zip")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dist", "foo.zip"), got)

	got, err = Expand("${DISTFIX_TEST_DIR}/pkgs")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pkgs"), got)
}

func TestExpand_LiteralDollarKept(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DISTFIX_TEST_SET", "value")

	// Only references to set variables are replaced, the rest is copied as written
	tests := []struct {
		name string
		path string
		want string
	}{
		{"unset variable", "a$DISTFIX_SURELY_UNSET_VAR", "a$DISTFIX_SURELY_UNSET_VAR"},
		{"unset braced variable", "a${DISTFIX_SURELY_UNSET_VAR}", "a${DISTFIX_SURELY_UNSET_VAR}"},
		{"digit name", "a$1distfix", "a$1distfix"},
		{"unterminated brace", "a${b", "a${b"},
		{"empty braces", "a${}b", "a${}b"},
		{"double dollar", "x$$", "x$$"},
		{"dash", "p$-q", "p$-q"},
		{"trailing dollar", "z$", "z$"},
		{"set variable next to literal", "$DISTFIX_TEST_SET$-q", "value$-q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(filepath.Join(dir, tt.path))
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}
}

func TestExpand_Home(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := Expand("~/subprojects/packagefiles")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "subprojects", "packagefiles"), got)

	got, err = Expand("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)
}

func TestExpand_NamedUserHome(t *testing.T) {
	u, err := user.Current()
	if err != nil || u.Username == "" || u.HomeDir == "" {
		t.Skip("current user has no name or home directory")
	}

	got, err := Expand("~" + u.Username + "/packagefiles")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(u.HomeDir, "packagefiles"), got)

	wd, err := os.Getwd()
	require.NoError(t, err)

	// Unknown users are not expanded
	got, err = Expand("~distfix-no-such-user/packagefiles")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "~distfix-no-such-user", "packagefiles"), got)
}

func TestExpand_RelativeBecomesAbsolute(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := Expand("dist/../dist/foo.zip")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, filepath.Join(wd, "dist", "foo.zip"), got)
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name    string
		archive string
		want    string
	}{
		{"simple", "out.zip", "out"},
		{"versioned", "dist/foo-1.0.zip", "foo-1.0"},
		{"only final extension", "/tmp/a.tar.zip", "a.tar"},
		{"no extension", "/tmp/archive", "archive"},
		{"dot file", "/tmp/.zip", ".zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseName(tt.archive))
		})
	}
}

func TestArcName(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "tmp", "src")

	got, err := ArcName("out", root, filepath.Join(root, "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "out/subprojects/a/b.txt", got)

	got, err = ArcName("foo-1.0", root, filepath.Join(root, "zlib", "meson.build"))
	require.NoError(t, err)
	assert.Equal(t, "foo-1.0/subprojects/zlib/meson.build", got)
}

func TestArcName_OutsideRoot(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "tmp", "src")

	_, err := ArcName("out", root, filepath.Join(string(filepath.Separator), "tmp", "other", "x"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not under")
}
