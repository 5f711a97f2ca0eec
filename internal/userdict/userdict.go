// Package userdict persists user-defined dictionary words in PostgreSQL.
//
// The lexicon oracle keeps custom words in memory; this package is the
// durable backing for them. On startup the server loads all stored words
// into the oracle, and every add/remove goes through the store first so a
// restart never loses vocabulary.
package userdict

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itektr/imla/internal/trcase"
)

const ddlCustomWords = `
CREATE TABLE IF NOT EXISTS custom_words (
    word     TEXT         PRIMARY KEY,
    added_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);
`

// Store is a PostgreSQL-backed custom word store. All operations are safe
// for concurrent use; words are stored in Turkish lowercase so lookups match
// the oracle's normalisation.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database at dsn, verifies the connection, and runs
// [Migrate] to ensure the custom_words table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("userdict: parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("userdict: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("userdict: ping: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("userdict: migrate: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Migrate creates the custom_words table if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, ddlCustomWords); err != nil {
		return fmt.Errorf("create custom_words: %w", err)
	}
	return nil
}

// Add inserts word into the store. Adding a word that is already present is
// not an error.
func (s *Store) Add(ctx context.Context, word string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO custom_words (word) VALUES ($1) ON CONFLICT (word) DO NOTHING`,
		trcase.Lower(word),
	)
	if err != nil {
		return fmt.Errorf("userdict: add %q: %w", word, err)
	}
	return nil
}

// Remove deletes word from the store. It reports whether the word was
// present.
func (s *Store) Remove(ctx context.Context, word string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM custom_words WHERE word = $1`,
		trcase.Lower(word),
	)
	if err != nil {
		return false, fmt.Errorf("userdict: remove %q: %w", word, err)
	}
	return tag.RowsAffected() > 0, nil
}

// All returns every stored word in insertion order.
func (s *Store) All(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT word FROM custom_words ORDER BY added_at, word`,
	)
	if err != nil {
		return nil, fmt.Errorf("userdict: list: %w", err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("userdict: scan: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("userdict: iterate: %w", err)
	}
	return words, nil
}

// Ping probes the underlying connection pool. Used by readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases all connections held by the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}
