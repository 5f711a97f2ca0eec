// Package lexicon implements the real [oracle.Oracle] on top of a Turkish
// frequency lexicon.
//
// A word is accepted when it appears in the lexicon (or in the user
// dictionary) after Turkish lowercasing. For unknown words the oracle
// produces ranked correction candidates from two sources, in order of
// preference:
//
//  1. Diacritic restoration: the word is folded to base Latin letters and
//     looked up in a fold index (e.g. "agac" → "ağaç"). This is cheap and
//     catches the most common Turkish typing error — writing on an ASCII
//     keyboard.
//
//  2. Edit distance: lexicon entries within the configured Damerau-
//     Levenshtein distance, ranked by distance, then Jaro-Winkler
//     similarity, then corpus frequency.
//
// The built-in seed lexicon is embedded so the oracle works with zero
// configuration; deployments point it at a full corpus-derived list.
//
// The Oracle is read-mostly and safe for concurrent use. Only the user
// dictionary mutates state, under a write lock, on the administrative path.
package lexicon

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	_ "embed"

	"github.com/antzucaro/matchr"

	"github.com/itektr/imla/internal/classify"
	"github.com/itektr/imla/internal/oracle"
	"github.com/itektr/imla/internal/trcase"
)

//go:embed seed_tr.txt
var seedLexicon []byte

const (
	defaultMaxEditDistance = 2
	defaultMaxSuggestions  = 10

	// ctxCheckStride bounds how many lexicon entries are scanned between
	// context cancellation checks.
	ctxCheckStride = 2048
)

// Option is a functional option for configuring an [Oracle].
type Option func(*Oracle)

// WithMaxEditDistance sets the maximum Damerau-Levenshtein distance at which
// a lexicon entry is still considered a correction candidate. Default: 2.
func WithMaxEditDistance(d int) Option {
	return func(o *Oracle) {
		o.maxEditDistance = d
	}
}

// WithMaxSuggestions caps how many ranked suggestions a verdict carries.
// Callers typically truncate further to their own limit. Default: 10.
func WithMaxSuggestions(n int) Option {
	return func(o *Oracle) {
		o.maxSuggestions = n
	}
}

// Oracle is a frequency-lexicon spell oracle. Construct it with [New] or
// [NewFromFile]; the zero value is not usable.
type Oracle struct {
	maxEditDistance int
	maxSuggestions  int

	mu     sync.RWMutex
	freq   map[string]int64    // lowercased word → corpus frequency
	folded map[string][]string // diacritic-folded form → lexicon words
	custom map[string]struct{} // user dictionary words (also present in freq)
}

var _ oracle.Oracle = (*Oracle)(nil)

// New builds an [Oracle] from the embedded seed lexicon.
func New(opts ...Option) (*Oracle, error) {
	o := &Oracle{
		maxEditDistance: defaultMaxEditDistance,
		maxSuggestions:  defaultMaxSuggestions,
		freq:            make(map[string]int64),
		folded:          make(map[string][]string),
		custom:          make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.load(bytes.NewReader(seedLexicon)); err != nil {
		return nil, fmt.Errorf("lexicon: parse embedded seed: %w", err)
	}
	return o, nil
}

// NewFromFile builds an [Oracle] from the embedded seed merged with the
// frequency list at path. File entries override seed frequencies for words
// present in both.
func NewFromFile(path string, opts ...Option) (*Oracle, error) {
	o, err := New(opts...)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open %q: %w", path, err)
	}
	defer f.Close()
	if err := o.load(f); err != nil {
		return nil, fmt.Errorf("lexicon: parse %q: %w", path, err)
	}
	return o, nil
}

// load parses "word count" lines from r into the lexicon. Blank lines and
// lines starting with '#' are skipped; malformed lines are ignored rather
// than failing the whole load.
func (o *Oracle) load(r io.Reader) error {
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		count, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}
		o.addEntry(trcase.Lower(parts[0]), count)
	}
	return s.Err()
}

// addEntry inserts word with the given frequency, maintaining the fold
// index. Caller must hold the write lock when the oracle is shared; during
// construction the oracle is not yet visible to other goroutines.
func (o *Oracle) addEntry(word string, count int64) {
	if word == "" {
		return
	}
	if _, known := o.freq[word]; !known {
		f := classify.Fold(word)
		o.folded[f] = append(o.folded[f], word)
	}
	o.freq[word] = count
}

// Size returns the number of distinct lexicon words, user dictionary
// included. Used by the readiness probe and the startup banner.
func (o *Oracle) Size() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.freq)
}

// AddCustomWord adds word to the user dictionary, making the oracle accept
// it as correctly spelled and offer it as a correction candidate.
func (o *Oracle) AddCustomWord(word string) {
	lw := trcase.Lower(strings.TrimSpace(word))
	if lw == "" {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	// User words are pinned to a very high frequency so they win candidate
	// ranking ties against seed vocabulary.
	const customFreq = 1_000_000_000
	o.addEntry(lw, customFreq)
	o.custom[lw] = struct{}{}
}

// RemoveCustomWord removes word from the user dictionary and reports whether
// it was present. Words that came from the lexicon files are untouched.
func (o *Oracle) RemoveCustomWord(word string) bool {
	lw := trcase.Lower(strings.TrimSpace(word))
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.custom[lw]; !ok {
		return false
	}
	delete(o.custom, lw)
	delete(o.freq, lw)
	f := classify.Fold(lw)
	o.folded[f] = deleteString(o.folded[f], lw)
	if len(o.folded[f]) == 0 {
		delete(o.folded, f)
	}
	return true
}

// Check implements [oracle.Oracle].
//
// The verdict's corrected word mirrors the case pattern of the input:
// all-caps input yields an all-caps correction, title-case input a
// title-case one.
func (o *Oracle) Check(ctx context.Context, word string) (oracle.Verdict, error) {
	lw := trcase.Lower(strings.TrimSpace(word))
	if lw == "" {
		return oracle.Unchanged(word), nil
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	if _, known := o.freq[lw]; known {
		return oracle.Unchanged(word), nil
	}

	candidates, err := o.candidates(ctx, lw)
	if err != nil {
		return oracle.Verdict{}, err
	}
	if len(candidates) == 0 {
		return oracle.Unchanged(word), nil
	}

	best := matchCase(word, candidates[0])
	rest := candidates[1:]
	if len(rest) > o.maxSuggestions {
		rest = rest[:o.maxSuggestions]
	}
	suggestions := make([]string, len(rest))
	for i, c := range rest {
		suggestions[i] = matchCase(word, c)
	}
	return oracle.Verdict{Word: best, Suggestions: suggestions, Corrected: true}, nil
}

// candidates returns ranked corrections for the unknown lowercased word.
// Caller must hold at least the read lock.
func (o *Oracle) candidates(ctx context.Context, lw string) ([]string, error) {
	var out []string
	seen := map[string]struct{}{lw: {}}

	// Stage 1: diacritic restoration via the fold index. These always rank
	// above edit-distance candidates, ordered by corpus frequency.
	restored := append([]string(nil), o.folded[classify.Fold(lw)]...)
	sort.Slice(restored, func(i, j int) bool {
		if o.freq[restored[i]] != o.freq[restored[j]] {
			return o.freq[restored[i]] > o.freq[restored[j]]
		}
		return restored[i] < restored[j]
	})
	for _, w := range restored {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}

	// Stage 2: bounded Damerau-Levenshtein scan over the lexicon.
	type scored struct {
		word     string
		distance int
		jw       float64
		freq     int64
	}
	var hits []scored

	runeLen := utf8.RuneCountInString(lw)
	i := 0
	for w := range o.freq {
		i++
		if i%ctxCheckStride == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if _, dup := seen[w]; dup {
			continue
		}
		if gap := utf8.RuneCountInString(w) - runeLen; gap > o.maxEditDistance || gap < -o.maxEditDistance {
			continue
		}
		d := matchr.DamerauLevenshtein(lw, w)
		if d > o.maxEditDistance {
			continue
		}
		hits = append(hits, scored{
			word:     w,
			distance: d,
			jw:       matchr.JaroWinkler(lw, w, false),
			freq:     o.freq[w],
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.jw != b.jw {
			return a.jw > b.jw
		}
		if a.freq != b.freq {
			return a.freq > b.freq
		}
		return a.word < b.word
	})
	for _, h := range hits {
		out = append(out, h.word)
	}
	return out, nil
}

// matchCase transfers the case pattern of src onto the lowercased candidate:
// all-caps src gives an all-caps result, title-case src a title-case one,
// anything else is returned as stored in the lexicon.
func matchCase(src, candidate string) string {
	switch {
	case isUpper(src):
		return trcase.Upper(candidate)
	case isTitle(src):
		r, size := utf8.DecodeRuneInString(candidate)
		if r == utf8.RuneError {
			return candidate
		}
		return trcase.Upper(string(r)) + candidate[size:]
	default:
		return candidate
	}
}

// isUpper reports whether s contains at least one letter and no lowercase
// letters.
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if unicode.IsLower(r) {
			return false
		}
	}
	return hasLetter
}

// isTitle reports whether s starts with an uppercase letter followed only by
// non-uppercase runes.
func isTitle(s string) bool {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError || !unicode.IsUpper(first) {
		return false
	}
	for _, r := range s[size:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// deleteString removes the first occurrence of v from s in place.
func deleteString(s []string, v string) []string {
	for i, w := range s {
		if w == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
