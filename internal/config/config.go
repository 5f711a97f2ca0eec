// Package config provides the configuration schema and loader for the imla
// spell-checking service.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a [time.Duration] that unmarshals from YAML strings like "2s"
// or "150ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a [time.Duration].
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// LogLevel controls log verbosity for the imla server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for imla.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	UserDict UserDictConfig `yaml:"userdict"`
}

// ServerConfig holds network and logging settings for the imla server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// OracleConfig selects and tunes the spell oracle backing the pipeline.
type OracleConfig struct {
	// LexiconPath points at an additional "word frequency" lexicon file
	// merged over the embedded seed lexicon. Leave empty to use the seed
	// lexicon alone.
	LexiconPath string `yaml:"lexicon_path"`

	// MaxEditDistance bounds the Damerau-Levenshtein distance considered
	// when generating suggestions. 0 means the built-in default of 2.
	MaxEditDistance int `yaml:"max_edit_distance"`
}

// PipelineConfig tunes the correction pipeline.
type PipelineConfig struct {
	// MaxSuggestions caps the suggestion list per correction. 0 means the
	// built-in default of 5.
	MaxSuggestions int `yaml:"max_suggestions"`

	// Concurrency is the number of words checked in parallel per request.
	// 0 means the built-in default.
	Concurrency int `yaml:"concurrency"`

	// WordTimeout bounds a single oracle lookup. 0 means the built-in
	// default.
	WordTimeout Duration `yaml:"word_timeout"`
}

// UserDictConfig configures the optional Postgres-backed user dictionary.
type UserDictConfig struct {
	// PostgresDSN is the connection string for the user dictionary database.
	// When empty, custom words are kept in memory only and are lost on
	// restart.
	PostgresDSN string `yaml:"postgres_dsn"`
}
