package enum

import (
	"context"

	"github.com/praetorian-inc/distfix/pkg/types"
)

// Enumerator discovers files to inject from a source.
type Enumerator interface {
	// Enumerate yields additions in walk order.
	// Returning an error from the callback stops enumeration.
	Enumerate(ctx context.Context, callback func(add types.Addition) error) error
}

// Config for enumeration.
type Config struct {
	// Root is the directory whose files are injected.
	Root string

	// ArchiveBase is the archive's file name without its extension; entry
	// names are rooted at "<ArchiveBase>/subprojects".
	ArchiveBase string
}
