package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Store persists audit events. Implementations must be append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySession(ctx context.Context, sessionID string) ([]Event, error)
}

const (
	ActionDeclarationStarted   = "declaration_started"
	ActionStepSaved            = "step_saved"
	ActionStepReopened         = "step_reopened"
	ActionDeclarationCancelled = "declaration_cancelled"
	ActionDeclarationSubmitted = "declaration_submitted"
	ActionDeclarationLookedUp  = "declaration_looked_up"
	ActionVerificationChecked  = "verification_checked"
)
