package publisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "github.com/stratosilva/ethiopia-thdf/pkg/platform/audit"
	"github.com/stratosilva/ethiopia-thdf/pkg/platform/audit/store/memory"
)

type failingStore struct {
	err error
}

func (s *failingStore) Append(_ context.Context, _ audit.Event) error {
	return s.err
}

func (s *failingStore) ListBySession(_ context.Context, _ string) ([]audit.Event, error) {
	return nil, nil
}

func TestPublisher_EmitStoresEvent(t *testing.T) {
	store := memory.New()
	pub := NewPublisher(store)

	event := audit.Event{
		SessionID: "sess-1",
		Action:    audit.ActionDeclarationStarted,
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionDeclarationStarted, events[0].Action)
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.New()
	pub := NewPublisher(store)

	event := audit.Event{
		SessionID: "sess-1",
		Action:    audit.ActionStepSaved,
		// Timestamp not set
	}

	before := time.Now()
	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)
	after := time.Now()

	events, err := pub.List(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.True(t, !events[0].Timestamp.Before(before), "timestamp should be >= before")
	assert.True(t, !events[0].Timestamp.After(after), "timestamp should be <= after")
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.New()
	pub := NewPublisher(store)

	customTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	event := audit.Event{
		SessionID: "sess-1",
		Action:    audit.ActionStepSaved,
		Timestamp: customTime,
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
}

func TestPublisher_EmitReturnsError(t *testing.T) {
	storeErr := errors.New("append failed")
	pub := NewPublisher(&failingStore{err: storeErr})

	err := pub.Emit(context.Background(), audit.Event{Action: audit.ActionDeclarationSubmitted})
	require.ErrorIs(t, err, storeErr)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.New()
	pub := NewPublisher(store,
		WithAsyncBuffer(16),
	)

	for i := 0; i < 5; i++ {
		err := pub.Emit(context.Background(), audit.Event{
			SessionID: "sess-async",
			Action:    audit.ActionStepSaved,
		})
		require.NoError(t, err)
	}

	pub.Close()

	events, err := pub.List(context.Background(), "sess-async")
	require.NoError(t, err)
	assert.Len(t, events, 5)
}
