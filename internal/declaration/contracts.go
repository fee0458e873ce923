package declaration

import (
	"context"
	"time"

	"github.com/stratosilva/ethiopia-thdf/internal/dhis2"
	"github.com/stratosilva/ethiopia-thdf/internal/reference"
	"github.com/stratosilva/ethiopia-thdf/pkg/platform/audit"
)

// Registry is the slice of the health registry client the workflow needs.
type Registry interface {
	Search(ctx context.Context, filters []string, withAttributes bool) ([]dhis2.TrackedEntity, error)
	ReserveIDs(ctx context.Context, n int) ([]string, error)
	Upsert(ctx context.Context, payload dhis2.TrackerPayload) error
	Enrollment(ctx context.Context, uid string) (*dhis2.Enrollment, error)
	TrackedEntity(ctx context.Context, uid string) (*dhis2.TrackedEntity, error)
}

// SessionStore persists wizard sessions. Implementations return
// sentinel.ErrNotFound for unknown session IDs.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

// MetadataLoader provides the dynamic form picklists.
type MetadataLoader interface {
	Load(ctx context.Context) (*reference.Metadata, error)
}

// ArchiveEntry is the durable trace of one submission. It carries no
// clinical content, only identifiers and the outcome.
type ArchiveEntry struct {
	SessionID      string
	Token          string
	Classification string
	Outcome        ResolutionOutcome
	Passport       string
	SubmittedAt    time.Time
}

// Archiver records submissions for reconciliation with the registry.
type Archiver interface {
	Record(ctx context.Context, entry ArchiveEntry) error
}

// AuditPublisher emits audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Clock abstracts time for deterministic tests.
type Clock func() time.Time
