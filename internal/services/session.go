package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ananth-NQI/loanverse-backend/internal/conversation"
	apperrors "github.com/Ananth-NQI/loanverse-backend/internal/errors"
	"github.com/Ananth-NQI/loanverse-backend/internal/logger"
	"github.com/Ananth-NQI/loanverse-backend/internal/storage"
)

// DefaultSessionTTL is how long an idle conversation is kept.
const DefaultSessionTTL = 30 * time.Minute

// SessionManager persists conversation sessions and serializes the turns
// applied to each one.
type SessionManager struct {
	store storage.SessionStore
	ttl   time.Duration
	log   logger.Logger
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessionManager creates a new session manager
func NewSessionManager(store storage.SessionStore, ttl time.Duration, log logger.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		store: store,
		ttl:   ttl,
		log:   log,
		now:   time.Now,
		locks: make(map[string]*sessionLock),
	}
}

// TTL is the idle lifetime of a session.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// Lock blocks until the caller holds the session's turn lock and returns
// the release function. Lock entries are dropped once nobody waits on them.
func (sm *SessionManager) Lock(id string) func() {
	sm.mu.Lock()
	l, ok := sm.locks[id]
	if !ok {
		l = &sessionLock{}
		sm.locks[id] = l
	}
	l.refs++
	sm.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		sm.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(sm.locks, id)
		}
		sm.mu.Unlock()
	}
}

// Load retrieves a session. Sessions idle for longer than the TTL are
// reported as expired even if the backing store still holds them.
func (sm *SessionManager) Load(ctx context.Context, id string) (*conversation.Session, error) {
	data, err := sm.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.NewSessionNotFoundError(id)
		}
		return nil, err
	}

	var s conversation.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, apperrors.NewStorageError("decode session", err)
	}
	if sm.now().Sub(s.UpdatedAt) > sm.ttl {
		_ = sm.store.Delete(ctx, id)
		return nil, apperrors.NewSessionExpiredError(id)
	}
	return &s, nil
}

// Save writes the session and restarts its TTL.
func (sm *SessionManager) Save(ctx context.Context, s *conversation.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return sm.store.Save(ctx, s.ID, data, sm.ttl)
}

// Expire removes a session immediately.
func (sm *SessionManager) Expire(ctx context.Context, id string) error {
	if _, err := sm.store.Load(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return apperrors.NewSessionNotFoundError(id)
		}
		return err
	}
	if err := sm.store.Delete(ctx, id); err != nil {
		return err
	}
	sm.log.Info("Session expired", map[string]interface{}{"session_id": id})
	return nil
}

// ActiveSessions returns every live session (for jobs and monitoring).
// Sessions that disappear or fail to decode while listing are skipped.
func (sm *SessionManager) ActiveSessions(ctx context.Context) ([]*conversation.Session, error) {
	ids, err := sm.store.IDs(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make([]*conversation.Session, 0, len(ids))
	for _, id := range ids {
		s, err := sm.Load(ctx, id)
		if err != nil {
			if !errors.Is(err, apperrors.ErrSessionNotFound) && !errors.Is(err, apperrors.ErrSessionExpired) {
				sm.log.Warn("Skipping unreadable session", map[string]interface{}{"session_id": id, "error": err.Error()})
			}
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
