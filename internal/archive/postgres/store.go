// Package postgres persists submission records. The archive is the local
// source of truth for reconciliation: every upsert the registry accepted has
// a row here, keyed by the declaration token.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/sentinel"
)

// Store implements declaration.Archiver on PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates the archive store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts one submission row.
func (s *Store) Record(ctx context.Context, entry declaration.ArchiveEntry) error {
	query := `
		INSERT INTO submissions (
			id, session_id, token, classification, outcome, passport, submitted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		entry.SessionID,
		entry.Token,
		entry.Classification,
		string(entry.Outcome),
		entry.Passport,
		entry.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// FindByToken returns the most recent submission for a declaration token.
func (s *Store) FindByToken(ctx context.Context, token string) (*declaration.ArchiveEntry, error) {
	query := `
		SELECT session_id, token, classification, outcome, passport, submitted_at
		FROM submissions
		WHERE token = $1
		ORDER BY submitted_at DESC
		LIMIT 1
	`

	var entry declaration.ArchiveEntry
	var outcome string
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&entry.SessionID,
		&entry.Token,
		&entry.Classification,
		&outcome,
		&entry.Passport,
		&entry.SubmittedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}
	entry.Outcome = declaration.ResolutionOutcome(outcome)
	return &entry, nil
}

// ListByPassport returns a traveler's submissions, newest first.
func (s *Store) ListByPassport(ctx context.Context, passport string) ([]declaration.ArchiveEntry, error) {
	query := `
		SELECT session_id, token, classification, outcome, passport, submitted_at
		FROM submissions
		WHERE passport = $1
		ORDER BY submitted_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, passport)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var entries []declaration.ArchiveEntry
	for rows.Next() {
		var entry declaration.ArchiveEntry
		var outcome string
		if err := rows.Scan(
			&entry.SessionID,
			&entry.Token,
			&entry.Classification,
			&outcome,
			&entry.Passport,
			&entry.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		entry.Outcome = declaration.ResolutionOutcome(outcome)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
