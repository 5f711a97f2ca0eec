// Package noop provides the degraded-mode [oracle.Oracle]: it accepts every
// word unchanged. It is selected once at process startup when the real
// lexicon cannot be initialised, so that text checking keeps serving
// (reporting zero errors) instead of failing every request.
package noop

import (
	"context"

	"github.com/itektr/imla/internal/oracle"
)

// Oracle is the no-op spell oracle. The zero value is ready to use.
type Oracle struct{}

var _ oracle.Oracle = Oracle{}

// New returns a no-op [Oracle].
func New() Oracle { return Oracle{} }

// Check always reports word as correct.
func (Oracle) Check(_ context.Context, word string) (oracle.Verdict, error) {
	return oracle.Unchanged(word), nil
}
