// Package tokenize splits raw input text into word tokens and projects each
// token onto its "clean" alphabetic core for spell lookup.
//
// A token keeps its original surface form, including surrounding punctuation
// and casing ("Evi,"). Its clean form contains only letters — the basic Latin
// alphabet plus the Turkish extended letters çÇğĞıİöÖşŞüÜ ("Evi"). After a
// correction the clean core is reinserted into the original punctuation shell
// by [Reinsert].
//
// All functions are pure and safe for concurrent use.
package tokenize

import (
	"strings"
	"unicode"
)

// turkishExtra is the fixed extended-letter set used by Turkish diacritics,
// in both cases. Kept explicit even though unicode.IsLetter already covers
// these runes, so the accepted alphabet is visible in one place.
const turkishExtra = "çÇğĞıİöÖşŞüÜ"

// Tokenize splits text into whitespace-delimited tokens. Leading and
// trailing whitespace is trimmed first; runs of any whitespace act as a
// single separator, so no returned token is empty. The original surface
// form of each token (punctuation, digits, casing) is preserved.
func Tokenize(text string) []string {
	return strings.Fields(strings.TrimSpace(text))
}

// Clean returns the alphabetic-only projection of token: every rune that is
// a letter or belongs to the Turkish extended set is kept, everything else
// (digits, punctuation, symbols) is dropped. The empty string means the
// token has no word core (e.g. "—" or "123").
func Clean(token string) string {
	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		if unicode.IsLetter(r) || strings.ContainsRune(turkishExtra, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Reinsert replaces the first occurrence of clean inside token with
// corrected, preserving the punctuation around it: Reinsert("evi,", "evi",
// "evin") returns "evin,". When clean does not occur verbatim in token
// (possible after case folding upstream), the corrected word is returned
// bare, without the punctuation shell. That fallback is deliberate: a
// correct word with lost punctuation beats a silently unchanged typo.
func Reinsert(token, clean, corrected string) string {
	if clean == "" {
		return token
	}
	if !strings.Contains(token, clean) {
		return corrected
	}
	return strings.Replace(token, clean, corrected, 1)
}
