package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "github.com/stratosilva/ethiopia-thdf/pkg/platform/audit"
)

// Store implements audit.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts an audit event into the audit_events table.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, timestamp, session_id, subject, action, outcome, reason, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		event.Timestamp,
		event.SessionID,
		event.Subject,
		event.Action,
		event.Outcome,
		event.Reason,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListBySession returns events for one declaration session, oldest first.
func (s *Store) ListBySession(ctx context.Context, sessionID string) ([]audit.Event, error) {
	query := `
		SELECT timestamp, session_id, subject, action, outcome, reason, request_id
		FROM audit_events
		WHERE session_id = $1
		ORDER BY timestamp ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var event audit.Event
		err := rows.Scan(
			&event.Timestamp,
			&event.SessionID,
			&event.Subject,
			&event.Action,
			&event.Outcome,
			&event.Reason,
			&event.RequestID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
