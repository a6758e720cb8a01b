package resolver

import (
	"fmt"

	"github.com/erraggy/oasgraph/document"
)

// Diagnostic records a non-fatal problem encountered by a best-effort
// operation, such as a discriminator mapping entry that could not be
// resolved. Best-effort operations drop the failing entry and report a
// Diagnostic instead of failing, so callers (and tests) can observe what was
// skipped without a process-wide warning channel.
type Diagnostic struct {
	// Ref is the reference expression involved, if any
	Ref document.Reference
	// Message describes what was dropped and why
	Message string
}

// String returns a formatted representation of the diagnostic.
func (d Diagnostic) String() string {
	if d.Ref != "" {
		return fmt.Sprintf("%s: %s", d.Ref, d.Message)
	}
	return d.Message
}
