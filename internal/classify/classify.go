// Package classify assigns an error category to a spelling correction by
// comparing the original word with its corrected form.
//
// Two categories exist. A diacritic error means the words differ only in
// Turkish diacritics ("agac" → "ağaç"): folding both words to their base
// Latin letters makes them equal. Everything else is a structural spelling
// error ("kalm" → "kalem").
package classify

import "strings"

// ErrorType categorises a correction. It serialises as the "type" field of
// a correction entry.
type ErrorType string

const (
	// Diacritic marks a correction that only restores Turkish diacritics.
	Diacritic ErrorType = "diacritic"

	// Spelling marks any other correction (substitution, insertion, deletion).
	Spelling ErrorType = "spelling"
)

// IsValid reports whether e is a recognised error type.
func (e ErrorType) IsValid() bool {
	return e == Diacritic || e == Spelling
}

// foldReplacer maps each of the six Turkish extended letters (both cases)
// onto its closest base Latin letter. The mapping is one-to-one and fixed.
var foldReplacer = strings.NewReplacer(
	"ç", "c", "Ç", "C",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "I", "i",
	"İ", "i",
	"ö", "o", "Ö", "O",
	"ş", "s", "Ş", "S",
	"ü", "u", "Ü", "U",
)

// Fold returns word with every Turkish extended letter replaced by its base
// Latin letter and the result lowercased. Two words with equal folded forms
// differ only in diacritics.
func Fold(word string) string {
	return strings.ToLower(foldReplacer.Replace(word))
}

// Classify compares original against corrected and returns the error
// category. The comparison is pure and deterministic.
//
// Note: a large length difference between the words is evaluated but does
// not currently select a distinct category — both branches resolve to
// [Spelling]. A finer category for truncations may hang off this check later.
func Classify(original, corrected string) ErrorType {
	if Fold(original) == Fold(corrected) {
		return Diacritic
	}

	if lengthGap(original, corrected) > 2 {
		return Spelling
	}
	return Spelling
}

// lengthGap returns the absolute difference in rune count between a and b.
func lengthGap(a, b string) int {
	d := len([]rune(a)) - len([]rune(b))
	if d < 0 {
		return -d
	}
	return d
}
