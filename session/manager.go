package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yashasviy/split-payments-api/split"
)

// DefaultTTL is how long an idle session lives.
const DefaultTTL = 30 * time.Minute

// Manager owns the lifecycle of split payment sessions.
type Manager struct {
	store   Store
	reducer *split.Reducer
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewManager(store Store, reducer *split.Reducer, ttl time.Duration, logger *zap.Logger) *Manager {
	if reducer == nil {
		reducer = split.NewReducer()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:   store,
		reducer: reducer,
		ttl:     ttl,
		logger:  logger.Named("session"),
		now:     time.Now,
	}
}

// Create starts a session seeded from accounts.
func (m *Manager) Create(ctx context.Context, ownerID string, accounts []split.Account) (*Session, error) {
	state, err := split.NewFormState(accounts)
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		State:     state,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}

	m.logger.Info("session created",
		zap.String("session_id", s.ID),
		zap.String("owner_id", ownerID),
		zap.Int("accounts", len(accounts)),
	)
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Dispatch applies action to the session and extends its lifetime. A
// contract violation leaves the session untouched.
func (m *Manager) Dispatch(ctx context.Context, id string, action split.Action) (*Session, error) {
	s, err := m.store.Update(ctx, id, func(s *Session) error {
		next, err := m.reducer.Transition(s.State, action)
		if err != nil {
			return err
		}
		s.State = next
		s.Version++
		s.ExpiresAt = m.now().Add(m.ttl)
		return nil
	})
	if err != nil {
		if errors.Is(err, split.ErrContractViolation) {
			m.logger.Error("action rejected",
				zap.String("session_id", id),
				zap.String("action", kindOf(action)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	m.logger.Debug("action applied",
		zap.String("session_id", id),
		zap.String("action", kindOf(action)),
		zap.Int64("version", s.Version),
	)
	return s, nil
}

// Abandon discards the session.
func (m *Manager) Abandon(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}
	m.logger.Info("session abandoned", zap.String("session_id", id))
	return nil
}

// Complete returns the final form and discards the session. It fails with
// ErrNotSubmittable while the form has errors and with ErrNotFound once
// another call has completed it.
func (m *Manager) Complete(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Update(ctx, id, func(s *Session) error {
		if !split.IsSubmittable(s.State) {
			return ErrNotSubmittable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Only the caller whose delete succeeds owns the completion; a concurrent
	// Complete that lost the race sees ErrNotFound.
	if err := m.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("discard session %s: %w", id, err)
	}

	m.logger.Info("session completed",
		zap.String("session_id", id),
		zap.String("payment_amount", s.State.PaymentAmount.Value),
		zap.Int("accounts", split.EnabledCount(s.State.Accounts)),
	)
	return s, nil
}

func kindOf(action split.Action) string {
	if action == nil {
		return "<nil>"
	}
	return string(action.Kind())
}
