package pipeline

import "github.com/itektr/imla/internal/classify"

// Correction captures a single word-level substitution made by the pipeline.
//
// The JSON field names are part of the service's wire contract and must not
// change: original, corrected, position, type, suggestions.
type Correction struct {
	// Original is the clean word as extracted from the input token.
	Original string `json:"original"`

	// Corrected is the replacement proposed by the oracle.
	Corrected string `json:"corrected"`

	// Position is the index of the word in the tokenised input, starting at 0.
	Position int `json:"position"`

	// Type categorises the error: diacritic or spelling.
	Type classify.ErrorType `json:"type"`

	// Suggestions are ranked alternative corrections, best first. Always
	// non-nil so it serialises as [] rather than null.
	Suggestions []string `json:"suggestions"`
}

// Result is the outcome of checking a full text. It is immutable once
// returned and serialises directly as the HTTP response body.
type Result struct {
	// Original is the input text exactly as received.
	Original string `json:"original"`

	// Corrected is the tokenised input with every correction applied,
	// tokens joined by single spaces.
	Corrected string `json:"corrected"`

	// Corrections lists every substitution in token order. Positions are
	// strictly increasing. Always non-nil.
	Corrections []Correction `json:"corrections"`

	// Confidence is a document-level score in [0.5, 1.0]; exactly 1.0 when
	// no errors were found.
	Confidence float64 `json:"confidence"`

	// ProcessingTimeMS is the wall-clock duration of the whole check in
	// milliseconds, rounded to two decimals. Observability only — not part
	// of the logical contract.
	ProcessingTimeMS float64 `json:"processing_time_ms"`

	// WordsChecked is the number of whitespace-delimited tokens in the
	// trimmed input.
	WordsChecked int `json:"words_checked"`

	// ErrorsFound equals len(Corrections).
	ErrorsFound int `json:"errors_found"`

	// OracleAvailable reports whether the spell oracle was initialised at
	// startup. When false the pipeline ran in degraded mode and the text
	// was passed through unchanged.
	OracleAvailable bool `json:"oracle_available"`
}

// WordResult is the outcome of checking a single word.
type WordResult struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`

	// IsCorrect reports whether the word matches its oracle verdict under
	// Turkish case-insensitive comparison.
	IsCorrect bool `json:"is_correct"`

	// Suggestions are ranked alternatives, best first. Always non-nil.
	Suggestions []string `json:"suggestions"`

	OracleAvailable bool `json:"oracle_available"`
}
