// Package kafka forwards audit events to a Kafka topic in addition to a
// primary store. Listing is always served from the primary store.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	audit "github.com/stratosilva/ethiopia-thdf/pkg/platform/audit"
	"github.com/stratosilva/ethiopia-thdf/internal/platform/kafka/producer"
)

// Sink decorates an audit.Store with a Kafka fan-out.
type Sink struct {
	primary audit.Store
	prod    *producer.Producer
	topic   string
}

// New creates a Kafka audit sink in front of the given primary store.
func New(primary audit.Store, prod *producer.Producer, topic string) *Sink {
	return &Sink{primary: primary, prod: prod, topic: topic}
}

// Append persists to the primary store and forwards to Kafka.
// Kafka delivery is asynchronous and its failure does not fail the append.
func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if err := s.primary.Append(ctx, event); err != nil {
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	//nolint:errcheck // delivery errors are reported via the producer logger
	s.prod.ProduceAsync(&producer.Message{
		Topic: s.topic,
		Key:   []byte(event.SessionID),
		Value: value,
		Headers: map[string]string{
			"action": event.Action,
		},
	})
	return nil
}

// ListBySession delegates to the primary store.
func (s *Sink) ListBySession(ctx context.Context, sessionID string) ([]audit.Event, error) {
	return s.primary.ListBySession(ctx, sessionID)
}
