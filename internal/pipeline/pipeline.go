// Package pipeline implements the text-correction pipeline: tokenise the
// input, ask the spell oracle about every word, classify the errors,
// reinsert corrections into their punctuation shells, and aggregate a
// document-level confidence score.
//
// The pipeline is stateless apart from invoking the [oracle.Oracle], holds
// no locks, and is safe for concurrent use. Words within one request are
// checked in parallel by a bounded worker group; token order is restored by
// writing results into per-index slots.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/itektr/imla/internal/classify"
	"github.com/itektr/imla/internal/observe"
	"github.com/itektr/imla/internal/oracle"
	"github.com/itektr/imla/internal/tokenize"
	"github.com/itektr/imla/internal/trcase"
)

const (
	// MaxTextLen is the maximum accepted input length for [Pipeline.Run],
	// in runes.
	MaxTextLen = 10_000

	// MaxWordLen is the maximum accepted input length for
	// [Pipeline.CheckWord], in runes.
	MaxWordLen = 100

	defaultConcurrency = 8
	defaultWordTimeout = 2 * time.Second
)

// Option is a functional option for configuring a [Pipeline].
type Option func(*Pipeline)

// WithConcurrency bounds how many words are checked in parallel within a
// single request. Values below 1 mean sequential checking. Default: 8.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n < 1 {
			n = 1
		}
		p.concurrency = n
	}
}

// WithWordTimeout bounds a single oracle lookup. A word whose lookup
// exceeds the timeout is passed through unchanged, like any other per-word
// failure; a hung oracle must not stall the whole request. Zero disables
// the bound. Default: 2s.
func WithWordTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.wordTimeout = d
	}
}

// WithMetrics sets the [observe.Metrics] instance the pipeline records to.
// Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// Pipeline is the correction pipeline. Construct it with [New].
type Pipeline struct {
	oracle      oracle.Oracle
	available   bool
	concurrency int
	wordTimeout time.Duration
	metrics     *observe.Metrics
}

// New creates a [Pipeline] around the given oracle.
//
// available is the process-wide oracle availability flag decided once at
// startup: when false, [Pipeline.Run] serves every request in degraded mode
// (input passed through, zero errors, full confidence) and
// [Pipeline.CheckWord] fails with [ErrOracleUnavailable]. The pipeline
// itself never re-probes availability.
func New(o oracle.Oracle, available bool, opts ...Option) *Pipeline {
	p := &Pipeline{
		oracle:      o,
		available:   available,
		concurrency: defaultConcurrency,
		wordTimeout: defaultWordTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	return p
}

// Available reports the process-wide oracle availability flag.
func (p *Pipeline) Available() bool { return p.available }

// checked is the per-token outcome slot filled by the worker group.
type checked struct {
	out        string
	correction *Correction
}

// Run checks text and returns a [Result] with every correction applied.
//
// It fails with [ErrInvalidInput] when text is empty or longer than
// [MaxTextLen] runes. Per-word oracle failures are contained: the affected
// word passes through unchanged and the failure is only recorded for
// diagnostics. When the oracle is unavailable the whole call short-circuits
// to a degraded pass-through result before any validation.
//
// maxSuggestions caps the suggestion list of each correction; values below
// zero are treated as zero.
func (p *Pipeline) Run(ctx context.Context, text string, maxSuggestions int) (*Result, error) {
	start := time.Now()
	ctx, span := observe.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	if !p.available {
		p.metrics.DegradedChecks.Add(ctx, 1)
		return &Result{
			Original:         text,
			Corrected:        text,
			Corrections:      []Correction{},
			Confidence:       1.0,
			ProcessingTimeMS: elapsedMS(start),
			OracleAvailable:  false,
		}, nil
	}

	if text == "" || utf8.RuneCountInString(text) > MaxTextLen {
		return nil, fmt.Errorf("%w: text must be between 1 and %d characters", ErrInvalidInput, MaxTextLen)
	}
	if maxSuggestions < 0 {
		maxSuggestions = 0
	}

	tokens := tokenize.Tokenize(text)
	slots := make([]checked, len(tokens))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, tok := range tokens {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = p.checkToken(gctx, i, tok, maxSuggestions)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline: check text: %w", err)
	}

	out := make([]string, len(tokens))
	corrections := []Correction{}
	for i, s := range slots {
		out[i] = s.out
		if s.correction != nil {
			corrections = append(corrections, *s.correction)
			p.metrics.RecordCorrection(ctx, string(s.correction.Type))
		}
	}

	res := &Result{
		Original:         text,
		Corrected:        strings.Join(out, " "),
		Corrections:      corrections,
		Confidence:       Confidence(len(corrections), len(tokens)),
		ProcessingTimeMS: elapsedMS(start),
		WordsChecked:     len(tokens),
		ErrorsFound:      len(corrections),
		OracleAvailable:  true,
	}

	p.metrics.CheckDuration.Record(ctx, time.Since(start).Seconds())
	p.metrics.WordsChecked.Add(ctx, int64(len(tokens)))
	observe.Logger(ctx).Debug("text checked",
		"words", res.WordsChecked,
		"errors", res.ErrorsFound,
		"confidence", res.Confidence,
		"duration_ms", res.ProcessingTimeMS,
	)
	return res, nil
}

// checkToken inspects a single token and returns its outcome slot. All
// oracle failures are contained here; the token is passed through unchanged
// and the failure recorded for diagnostics only.
func (p *Pipeline) checkToken(ctx context.Context, position int, token string, maxSuggestions int) checked {
	clean := tokenize.Clean(token)
	if clean == "" {
		// Pure punctuation or digits: never checked, never corrected.
		return checked{out: token}
	}

	if p.wordTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.wordTimeout)
		defer cancel()
	}

	verdict, err := p.oracle.Check(ctx, clean)
	if err != nil {
		p.metrics.RecordOracleError(ctx)
		observe.Logger(ctx).Warn("word lookup failed, passing through",
			"word", clean, "position", position, "err", err)
		return checked{out: token}
	}
	if !verdict.Corrected || trcase.Equal(verdict.Word, clean) {
		return checked{out: token}
	}

	return checked{
		out: tokenize.Reinsert(token, clean, verdict.Word),
		correction: &Correction{
			Original:    clean,
			Corrected:   verdict.Word,
			Position:    position,
			Type:        classify.Classify(clean, verdict.Word),
			Suggestions: truncate(verdict.Suggestions, maxSuggestions),
		},
	}
}

// CheckWord checks a single word, bypassing tokenisation.
//
// Unlike [Pipeline.Run], an unavailable oracle surfaces as
// [ErrOracleUnavailable] here: a caller asking about one specific word is
// told the service cannot answer rather than being handed a silent "looks
// fine". It fails with [ErrInvalidInput] when word is empty or longer than
// [MaxWordLen] runes; oracle lookup failures propagate as processing errors.
func (p *Pipeline) CheckWord(ctx context.Context, word string, maxSuggestions int) (*WordResult, error) {
	start := time.Now()
	ctx, span := observe.StartSpan(ctx, "pipeline.CheckWord")
	defer span.End()

	if !p.available {
		return nil, ErrOracleUnavailable
	}

	word = strings.TrimSpace(word)
	if word == "" || utf8.RuneCountInString(word) > MaxWordLen {
		return nil, fmt.Errorf("%w: word must be between 1 and %d characters", ErrInvalidInput, MaxWordLen)
	}
	if maxSuggestions < 0 {
		maxSuggestions = 0
	}

	if p.wordTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.wordTimeout)
		defer cancel()
	}

	verdict, err := p.oracle.Check(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("pipeline: check word %q: %w", word, err)
	}

	res := &WordResult{
		Original:        word,
		Corrected:       verdict.Word,
		IsCorrect:       !verdict.Corrected || trcase.Equal(verdict.Word, word),
		Suggestions:     truncate(verdict.Suggestions, maxSuggestions),
		OracleAvailable: true,
	}
	p.metrics.WordCheckDuration.Record(ctx, time.Since(start).Seconds())
	p.metrics.WordsChecked.Add(ctx, 1)
	return res, nil
}

// truncate returns at most n leading elements of s as a non-nil slice.
func truncate(s []string, n int) []string {
	if len(s) > n {
		s = s[:n]
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// elapsedMS returns the wall-clock time since start in milliseconds,
// rounded to two decimal places.
func elapsedMS(start time.Time) float64 {
	ms := float64(time.Since(start).Microseconds()) / 1000.0
	return math.Round(ms*100) / 100
}
