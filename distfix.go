// Package distfix injects subproject override files into 'meson dist' zip
// archives.
//
// 'meson dist' does not ship the contents of subprojects/packagefiles, so the
// dist test stage cannot find the meson.build files those overrides provide.
// distfix appends them to the archive under "<archive-name>/subprojects/".
//
// # Basic Usage
//
//	result, err := distfix.Inject(ctx, "builddir/meson-dist/foo-1.0.zip", "subprojects/packagefiles")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("added %d, skipped %d\n", len(result.Added), len(result.Skipped))
//
// Entries already present in the archive are never overwritten; each one is
// reported as a "skipping: <source> <entry>" line on the configured output.
package distfix

import (
	"context"
	"io"

	"github.com/praetorian-inc/distfix/pkg/inject"
	"github.com/praetorian-inc/distfix/pkg/types"
)

// Re-export commonly used types for convenience.
type (
	// Addition pairs a source file with its entry name in the archive.
	Addition = types.Addition

	// Result lists the entries added and skipped by a run.
	Result = types.Result
)

// Re-export error sentinels for errors.Is checks.
var (
	ErrInputNotFound = inject.ErrInputNotFound
	ErrArchiveFormat = inject.ErrArchiveFormat
)

// injectConfig holds Inject configuration.
type injectConfig struct {
	out io.Writer
}

// Option configures Inject.
type Option func(*injectConfig)

// WithOutput sets where skip diagnostics are written. Default discards them.
func WithOutput(w io.Writer) Option {
	return func(c *injectConfig) {
		c.out = w
	}
}

// Inject appends every file under filesPath to the zip archive at
// archivePath, skipping entry names the archive already contains.
func Inject(ctx context.Context, archivePath, filesPath string, opts ...Option) (*Result, error) {
	config := &injectConfig{out: io.Discard}
	for _, opt := range opts {
		opt(config)
	}

	return inject.New(config.out).Inject(ctx, archivePath, filesPath)
}
