// Package session keeps one split payment form per payment session and
// applies actions to it one at a time.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/yashasviy/split-payments-api/split"
)

var (
	// ErrNotFound is returned for unknown, expired, completed or abandoned sessions.
	ErrNotFound = errors.New("session not found")

	// ErrBusy is returned when another action is being applied to the same session.
	ErrBusy = errors.New("session is busy")

	// ErrNotSubmittable is returned by Complete while the form still has errors.
	ErrNotSubmittable = errors.New("session is not submittable")

	// ErrExists is returned when creating a session whose ID is taken.
	ErrExists = errors.New("session already exists")
)

// Session is a live split payment form.
type Session struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id,omitempty"`
	State     split.FormState `json:"state"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (s *Session) clone() *Session {
	c := *s
	c.State = s.State.Clone()
	return &c
}

func (s *Session) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store holds sessions. Update must run fn while no other Update for the
// same ID is in progress, and must only persist the session if fn succeeds.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}
