package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if tls := cfg.Server.TLS; tls != nil {
		if tls.CertFile == "" {
			errs = append(errs, errors.New("server.tls.cert_file is required when server.tls is set"))
		}
		if tls.KeyFile == "" {
			errs = append(errs, errors.New("server.tls.key_file is required when server.tls is set"))
		}
	}

	// Oracle
	if cfg.Oracle.MaxEditDistance < 0 {
		errs = append(errs, fmt.Errorf("oracle.max_edit_distance %d must not be negative", cfg.Oracle.MaxEditDistance))
	}
	if cfg.Oracle.MaxEditDistance > 4 {
		errs = append(errs, fmt.Errorf("oracle.max_edit_distance %d is out of range [0, 4]", cfg.Oracle.MaxEditDistance))
	}
	if path := cfg.Oracle.LexiconPath; path != "" {
		if _, err := os.Stat(path); err != nil {
			// Not fatal: the server falls back to the seed lexicon and
			// serves in degraded mode for single-word checks.
			slog.Warn("oracle.lexicon_path is not readable", "path", path, "error", err)
		}
	}

	// Pipeline
	if cfg.Pipeline.MaxSuggestions < 0 {
		errs = append(errs, fmt.Errorf("pipeline.max_suggestions %d must not be negative", cfg.Pipeline.MaxSuggestions))
	}
	if cfg.Pipeline.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("pipeline.concurrency %d must not be negative", cfg.Pipeline.Concurrency))
	}
	if cfg.Pipeline.WordTimeout < 0 {
		errs = append(errs, fmt.Errorf("pipeline.word_timeout %s must not be negative", cfg.Pipeline.WordTimeout))
	}

	// User dictionary
	if cfg.UserDict.PostgresDSN == "" {
		slog.Warn("userdict.postgres_dsn is empty; custom words will not survive restarts")
	}

	return errors.Join(errs...)
}
