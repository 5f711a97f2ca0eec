// Package trcase provides Turkish-aware case conversion and comparison.
//
// Turkish has a four-way i mapping: dotless ı ↔ I and dotted i ↔ İ. The
// stdlib strings.ToLower applies the default Unicode mapping (I → i), which
// silently corrupts Turkish words such as "ISPARTA" → "isparta" instead of
// "ısparta". All case handling in this repository must go through this
// package instead of the strings functions.
package trcase

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower returns s lowercased under Turkish casing rules (ı/İ aware).
func Lower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// Upper returns s uppercased under Turkish casing rules (i → İ, ı → I).
func Upper(s string) string {
	return cases.Upper(language.Turkish).String(s)
}

// Equal reports whether a and b are equal ignoring case under Turkish
// casing rules. This is the comparison the correction pipeline uses to
// decide whether an oracle verdict actually changes a word.
func Equal(a, b string) bool {
	if a == b {
		return true
	}
	return Lower(a) == Lower(b)
}
