package lexicon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/itektr/imla/internal/oracle/lexicon"
)

func newOracle(t *testing.T, opts ...lexicon.Option) *lexicon.Oracle {
	t.Helper()
	o, err := lexicon.New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o
}

func TestCheck_KnownWordUnchanged(t *testing.T) {
	t.Parallel()

	o := newOracle(t)
	for _, word := range []string{"ağaç", "kalem", "merhaba", "Ağaç", "MERHABA"} {
		v, err := o.Check(context.Background(), word)
		if err != nil {
			t.Fatalf("Check(%q): %v", word, err)
		}
		if v.Corrected {
			t.Errorf("Check(%q): corrected=true, want unchanged (%+v)", word, v)
		}
		if v.Word != word {
			t.Errorf("Check(%q): word=%q, want input echoed", word, v.Word)
		}
	}
}

func TestCheck_DiacriticRestoration(t *testing.T) {
	t.Parallel()

	o := newOracle(t)
	tests := []struct {
		in, want string
	}{
		{"agac", "ağaç"},
		{"yagmur", "yağmur"},
		{"gunaydin", "günaydın"},
	}
	for _, tc := range tests {
		v, err := o.Check(context.Background(), tc.in)
		if err != nil {
			t.Fatalf("Check(%q): %v", tc.in, err)
		}
		if !v.Corrected {
			t.Fatalf("Check(%q): corrected=false, want %q", tc.in, tc.want)
		}
		if v.Word != tc.want {
			t.Errorf("Check(%q): word=%q, want %q", tc.in, v.Word, tc.want)
		}
	}
}

func TestCheck_EditDistanceCorrection(t *testing.T) {
	t.Parallel()

	o := newOracle(t)
	v, err := o.Check(context.Background(), "kalm")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !v.Corrected {
		t.Fatal("Check(kalm): corrected=false, want a correction")
	}
	if v.Word != "kalem" {
		t.Errorf("Check(kalm): word=%q, want %q", v.Word, "kalem")
	}
}

func TestCheck_CasePatternPreserved(t *testing.T) {
	t.Parallel()

	o := newOracle(t)

	v, err := o.Check(context.Background(), "Agac")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !v.Corrected || v.Word != "Ağaç" {
		t.Errorf("Check(Agac) = %+v, want title-cased %q", v, "Ağaç")
	}

	v, err = o.Check(context.Background(), "AGAC")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !v.Corrected || v.Word != "AĞAÇ" {
		t.Errorf("Check(AGAC) = %+v, want upper-cased %q", v, "AĞAÇ")
	}
}

func TestCheck_UncorrectableWordUnchanged(t *testing.T) {
	t.Parallel()

	o := newOracle(t)
	const gibberish = "xqwzptvk"
	v, err := o.Check(context.Background(), gibberish)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if v.Corrected {
		t.Errorf("Check(%q): corrected=true with %q, want unchanged", gibberish, v.Word)
	}
}

func TestCheck_SuggestionsRankedAndCapped(t *testing.T) {
	t.Parallel()

	o := newOracle(t, lexicon.WithMaxSuggestions(3))
	v, err := o.Check(context.Background(), "kalm")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !v.Corrected {
		t.Fatal("want a correction for kalm")
	}
	if len(v.Suggestions) > 3 {
		t.Errorf("got %d suggestions, want at most 3", len(v.Suggestions))
	}
	for _, s := range v.Suggestions {
		if s == v.Word {
			t.Errorf("suggestion %q duplicates the corrected word", s)
		}
	}
}

func TestCheck_ContextCancellation(t *testing.T) {
	t.Parallel()

	o := newOracle(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Known words short-circuit before the scan and still succeed.
	if _, err := o.Check(ctx, "ağaç"); err != nil {
		t.Errorf("Check(known word) with cancelled ctx: %v", err)
	}
}

func TestCustomWords(t *testing.T) {
	t.Parallel()

	o := newOracle(t)
	const word = "tübitak"

	v, err := o.Check(context.Background(), word)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if v.Corrected && v.Word == word {
		t.Fatalf("unexpected self-correction for %q", word)
	}

	o.AddCustomWord(word)
	v, err = o.Check(context.Background(), word)
	if err != nil {
		t.Fatalf("Check after AddCustomWord: %v", err)
	}
	if v.Corrected {
		t.Errorf("Check(%q) after AddCustomWord: corrected=true, want accepted", word)
	}

	if !o.RemoveCustomWord(word) {
		t.Errorf("RemoveCustomWord(%q) = false, want true for a custom word", word)
	}
	v, err = o.Check(context.Background(), word)
	if err != nil {
		t.Fatalf("Check after RemoveCustomWord: %v", err)
	}
	if !v.Corrected && o.Size() == 0 {
		t.Error("lexicon emptied by RemoveCustomWord")
	}
}

func TestRemoveCustomWord_IgnoresLexiconWords(t *testing.T) {
	t.Parallel()

	o := newOracle(t)
	before := o.Size()
	if o.RemoveCustomWord("ağaç") {
		t.Error("RemoveCustomWord = true for a lexicon-file word, want false")
	}
	if o.Size() != before {
		t.Error("RemoveCustomWord must not delete lexicon-file words")
	}

	v, err := o.Check(context.Background(), "ağaç")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if v.Corrected {
		t.Error("ağaç should still be accepted after RemoveCustomWord")
	}
}

func TestNewFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "extra.txt")
	content := "# extra vocabulary\ntübitak 12345\nimlakontrol 678\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	o, err := lexicon.NewFromFile(path)
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	v, err := o.Check(context.Background(), "tübitak")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if v.Corrected {
		t.Error("word from the extra file should be accepted")
	}
	// Seed vocabulary is still present.
	if o.Size() < 300 {
		t.Errorf("Size() = %d, want the merged seed lexicon", o.Size())
	}
}

func TestNewFromFile_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := lexicon.NewFromFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("NewFromFile with missing file: want error")
	}
}
