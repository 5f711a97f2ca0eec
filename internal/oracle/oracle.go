// Package oracle defines the spell-oracle capability boundary consumed by
// the correction pipeline.
//
// An [Oracle] answers one question: is this word spelled correctly, and if
// not, what should it be? The pipeline never assumes a particular algorithm
// behind the interface — a frequency-lexicon oracle, a remote service, or
// the no-op degraded-mode oracle all satisfy the same contract.
//
// Implementations must be safe for concurrent use: a single Oracle instance
// is shared read-mostly across all simultaneous requests.
package oracle

import "context"

// Verdict is the outcome of checking a single word.
//
// When Corrected is false the word is considered correct (or uncorrectable)
// and Word echoes the input. When Corrected is true, Word holds the
// replacement and Suggestions holds further ranked alternatives, best first.
type Verdict struct {
	// Word is the corrected form, or the input word when no correction applies.
	Word string

	// Suggestions are ranked alternative corrections, best first. May be empty.
	Suggestions []string

	// Corrected reports whether the oracle proposes a replacement.
	Corrected bool
}

// Unchanged returns the verdict for a word the oracle accepts as-is.
func Unchanged(word string) Verdict {
	return Verdict{Word: word}
}

// Oracle is the abstract spell-check capability.
type Oracle interface {
	// Check inspects a single clean word and returns a [Verdict].
	//
	// A non-nil error signals a lookup failure for this word only; callers
	// treat it as "no correction" and must never fail a whole request
	// because of it. Implementations should respect ctx cancellation.
	Check(ctx context.Context, word string) (Verdict, error)
}
