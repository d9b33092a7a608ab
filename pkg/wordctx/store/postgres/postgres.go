// Package postgres implements the aggregate store on PostgreSQL through
// the upsert_pair procedure and the min_inconsistency_word function.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cognicore/wordctx/pkg/wordctx/internalerr"
)

//go:embed schema.sql
var schemaSQL string

// Store talks to PostgreSQL over a single connection. A pgx.Conn is not
// safe for concurrent use; wrap the Store in store.Exclusive.
type Store struct {
	conn *pgx.Conn
}

// Options configures Open.
type Options struct {
	// Bootstrap installs the table, procedure and function from the
	// embedded schema before returning.
	Bootstrap bool
}

// Open connects to the database named by dsn.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w: %v", internalerr.ErrStoreUnavailable, err)
	}
	s := &Store{conn: conn}
	if opts.Bootstrap {
		if err := s.Bootstrap(ctx); err != nil {
			conn.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

// Bootstrap creates the schema objects if they are missing.
func (s *Store) Bootstrap(ctx context.Context) error {
	if _, err := s.conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("bootstrap schema: %w", err)
	}
	return nil
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.conn.Close(context.Background())
}

// IncrementPair calls upsert_pair.
func (s *Store) IncrementPair(ctx context.Context, a, b string, distance int32) error {
	_, err := s.conn.Exec(ctx, "call upsert_pair($1::text, $2::text, $3::integer)", a, b, distance)
	if err != nil {
		return fmt.Errorf("upsert_pair(%q, %q, %d): %w", a, b, distance, err)
	}
	return nil
}

// BestCandidate calls min_inconsistency_word. A NULL answer means no
// vocabulary word matched the placeholder.
func (s *Store) BestCandidate(ctx context.Context, leftWords []string, leftDists []int32, placeholder string, rightWords []string, rightDists []int32) (string, error) {
	var word *string
	err := s.conn.QueryRow(ctx,
		"select min_inconsistency_word($1::text[], $2::integer[], $3::text, $4::text[], $5::integer[])",
		nonNil(leftWords), nonNilInts(leftDists), placeholder, nonNil(rightWords), nonNilInts(rightDists),
	).Scan(&word)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && word == nil) {
		return "", fmt.Errorf("min_inconsistency_word(%q): %w", placeholder, internalerr.ErrNoCandidate)
	}
	if err != nil {
		return "", fmt.Errorf("min_inconsistency_word(%q): %w", placeholder, err)
	}
	return *word, nil
}

// pgx encodes a nil slice as NULL; the routines expect empty arrays.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilInts(s []int32) []int32 {
	if s == nil {
		return []int32{}
	}
	return s
}
