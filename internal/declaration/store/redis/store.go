// Package redis stores wizard sessions in Redis so the declaration service
// can scale horizontally and sessions survive restarts. The registry TTL is
// the session TTL; Redis expiry is the only garbage collection.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/sentinel"
	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

const keyPrefix = "thdf:session:"

// Store persists sessions as JSON values with a TTL.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New creates a Redis session store. Sessions expire after ttl of inactivity.
func New(client redis.Cmdable, ttl time.Duration) *Store {
	if client == nil {
		panic("redis session store: client is required")
	}
	return &Store{client: client, ttl: ttl}
}

// Create stores a new session. An existing live key is a conflict.
func (s *Store) Create(ctx context.Context, session *declaration.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode session")
	}
	ok, err := s.client.SetNX(ctx, keyPrefix+session.ID, raw, s.ttl).Result()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "store session")
	}
	if !ok {
		return dErrors.New(dErrors.CodeConflict, "session already exists")
	}
	return nil
}

// Get returns a session or sentinel.ErrNotFound after expiry.
func (s *Store) Get(ctx context.Context, id string) (*declaration.Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load session")
	}

	var session declaration.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode session")
	}
	return &session, nil
}

// Update replaces a session and restarts its TTL. Updating an expired or
// unknown session returns sentinel.ErrNotFound.
func (s *Store) Update(ctx context.Context, session *declaration.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode session")
	}
	ok, err := s.client.SetXX(ctx, keyPrefix+session.ID, raw, s.ttl).Result()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "store session")
	}
	if !ok {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete session")
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
