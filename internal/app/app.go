// Package app wires all imla subsystems into a running HTTP server.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, Run serves HTTP until the context is cancelled, and Shutdown
// tears everything down in order.
//
// For testing, inject doubles via functional options (WithOracle,
// WithWordStore). When an option is not provided, New creates real
// implementations from the config.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itektr/imla/internal/config"
	"github.com/itektr/imla/internal/health"
	"github.com/itektr/imla/internal/httpapi"
	"github.com/itektr/imla/internal/observe"
	"github.com/itektr/imla/internal/oracle"
	"github.com/itektr/imla/internal/oracle/lexicon"
	"github.com/itektr/imla/internal/oracle/noop"
	"github.com/itektr/imla/internal/pipeline"
	"github.com/itektr/imla/internal/userdict"
)

// Version is the reported service version. Overridden at build time via
// -ldflags "-X github.com/itektr/imla/internal/app.Version=...".
var Version = "dev"

// shutdownTimeout bounds the HTTP server drain during Shutdown.
const shutdownTimeout = 10 * time.Second

// wordStore is the persistence surface App needs from the user dictionary.
type wordStore interface {
	httpapi.WordStore
	All(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close()
}

// App owns all subsystem lifetimes and serves the spell-checking API.
type App struct {
	cfg *config.Config

	oracle    oracle.Oracle
	available bool
	dict      httpapi.Dictionary
	store     wordStore
	pipeline  *pipeline.Pipeline
	server    *http.Server

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithOracle injects a spell oracle instead of building the lexicon from
// config. available reports whether the oracle produces real verdicts.
func WithOracle(o oracle.Oracle, available bool) Option {
	return func(a *App) {
		a.oracle = o
		a.available = available
	}
}

// WithWordStore injects a user dictionary store instead of connecting to
// Postgres from config.
func WithWordStore(st wordStore) Option {
	return func(a *App) { a.store = st }
}

// New creates an App by wiring all subsystems together: the lexicon oracle,
// the optional Postgres user dictionary, the correction pipeline, and the
// HTTP mux with API, health, and metrics routes.
//
// A failed lexicon load is not fatal: the server starts with a no-op oracle
// and serves text checks in degraded pass-through mode.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, o := range opts {
		o(a)
	}

	if a.oracle == nil {
		a.buildOracle()
	}

	if a.store == nil && cfg.UserDict.PostgresDSN != "" {
		st, err := userdict.New(ctx, cfg.UserDict.PostgresDSN)
		if err != nil {
			// The dictionary is an enhancement: keep serving without it.
			slog.Warn("user dictionary unavailable", "error", err)
		} else {
			a.store = st
			a.closers = append(a.closers, func() error {
				st.Close()
				return nil
			})
		}
	}

	if a.store != nil && a.dict != nil {
		if err := a.loadCustomWords(ctx); err != nil {
			slog.Warn("loading custom words failed", "error", err)
		}
	}

	a.pipeline = pipeline.New(a.oracle, a.available, pipelineOptions(cfg)...)
	a.server = a.buildServer()

	return a, nil
}

// buildOracle constructs the lexicon oracle from config, falling back to a
// no-op oracle in degraded mode when the lexicon cannot be loaded.
func (a *App) buildOracle() {
	var lexOpts []lexicon.Option
	if d := a.cfg.Oracle.MaxEditDistance; d > 0 {
		lexOpts = append(lexOpts, lexicon.WithMaxEditDistance(d))
	}
	if n := a.cfg.Pipeline.MaxSuggestions; n > 0 {
		lexOpts = append(lexOpts, lexicon.WithMaxSuggestions(n))
	}

	var (
		lex *lexicon.Oracle
		err error
	)
	if path := a.cfg.Oracle.LexiconPath; path != "" {
		lex, err = lexicon.NewFromFile(path, lexOpts...)
	} else {
		lex, err = lexicon.New(lexOpts...)
	}
	if err != nil {
		slog.Warn("lexicon oracle unavailable, serving in degraded mode", "error", err)
		a.oracle = noop.Oracle{}
		a.available = false
		return
	}

	slog.Info("lexicon oracle ready", "words", lex.Size())
	a.oracle = lex
	a.available = true
	a.dict = lex
}

// loadCustomWords replays the persisted user dictionary into the oracle.
func (a *App) loadCustomWords(ctx context.Context) error {
	words, err := a.store.All(ctx)
	if err != nil {
		return err
	}
	for _, w := range words {
		a.dict.AddCustomWord(w)
	}
	slog.Info("custom words loaded", "count", len(words))
	return nil
}

// buildServer assembles the HTTP mux: API routes, health probes, Prometheus
// metrics, and the observability middleware, all behind permissive CORS.
func (a *App) buildServer() *http.Server {
	apiOpts := []httpapi.Option{
		httpapi.WithVersion(Version),
	}
	if n := a.cfg.Pipeline.MaxSuggestions; n > 0 {
		apiOpts = append(apiOpts, httpapi.WithMaxSuggestions(n))
	}
	if a.dict != nil {
		apiOpts = append(apiOpts, httpapi.WithDictionary(a.dict))
	}
	if a.store != nil {
		apiOpts = append(apiOpts, httpapi.WithWordStore(a.store))
	}
	api := httpapi.New(a.pipeline, apiOpts...)

	checkers := []health.Checker{
		health.Oracle(a.pipeline.Available),
	}
	if a.store != nil {
		checkers = append(checkers, health.Database(a.store))
	}

	mux := http.NewServeMux()
	api.Register(mux)
	health.New(checkers...).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	addr := a.cfg.Server.ListenAddr
	if addr == "" {
		addr = ":8080"
	}
	handler := observe.Middleware(observe.DefaultMetrics())(mux)
	return &http.Server{
		Addr:              addr,
		Handler:           httpapi.CORS(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// pipelineOptions translates config values into pipeline options.
func pipelineOptions(cfg *config.Config) []pipeline.Option {
	var opts []pipeline.Option
	if n := cfg.Pipeline.Concurrency; n > 0 {
		opts = append(opts, pipeline.WithConcurrency(n))
	}
	if d := cfg.Pipeline.WordTimeout.Std(); d > 0 {
		opts = append(opts, pipeline.WithWordTimeout(d))
	}
	return opts
}

// Handler returns the fully assembled HTTP handler. Exposed for tests.
func (a *App) Handler() http.Handler { return a.server.Handler }

// Run serves HTTP until ctx is cancelled or the listener fails. TLS is used
// when configured.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", a.server.Addr, "tls", a.cfg.Server.TLS != nil)
		var err error
		if tls := a.cfg.Server.TLS; tls != nil {
			err = a.server.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			err = a.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown drains the HTTP server and tears down subsystems in reverse-init
// order. It respects the context deadline: if ctx expires before all closers
// finish, remaining closers are skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		drainCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(drainCtx); err != nil {
			slog.Warn("http server shutdown error", "error", err)
		}

		for i, closer := range a.closers {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", len(a.closers)-i)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := closer(); err != nil {
				slog.Warn("closer error", "error", err)
			}
		}
	})
	return shutdownErr
}
