package dataquality

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"quality-admin/feature/dataquality/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for an unknown or expired session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionBusy is returned while another request holds the session.
	ErrSessionBusy = errors.New("session is busy")
)

// Session binds one rule store to an editing client.
type Session struct {
	ID      string
	OrgID   int
	Created time.Time
	Store   *store.Store

	mu       sync.Mutex
	busy     atomic.Bool
	lastUsed atomic.Int64
	lastErr  atomic.Value
}

// Show marks the session busy for the duration of a persistence call.
func (s *Session) Show() { s.busy.Store(true) }

// Hide clears the busy mark.
func (s *Session) Hide() { s.busy.Store(false) }

// Busy reports whether a persistence call is running.
func (s *Session) Busy() bool { return s.busy.Load() }

// LastError returns the message of the last failed persistence call.
func (s *Session) LastError() string {
	msg, _ := s.lastErr.Load().(string)
	return msg
}

func (s *Session) touch(now time.Time) { s.lastUsed.Store(now.UnixNano()) }

func (s *Session) idleSince() time.Time { return time.Unix(0, s.lastUsed.Load()) }

type sessionRegistry struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

func newSessionRegistry(ttl time.Duration) *sessionRegistry {
	return &sessionRegistry{ttl: ttl, sessions: make(map[string]*Session), now: time.Now}
}

func (r *sessionRegistry) add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	s.touch(r.now())
	r.sessions[s.ID] = s
}

func (r *sessionRegistry) get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *sessionRegistry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweepLocked drops idle sessions that nobody is using right now.
func (r *sessionRegistry) sweepLocked() {
	cutoff := r.now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) && !s.Busy() {
			delete(r.sessions, id)
		}
	}
}

// OpenSession creates a store for the organization, loads its rules and registers a session.
func (s *Service) OpenSession(ctx context.Context, orgID int) (*Session, error) {
	columns, err := s.columns.All()
	if err != nil {
		return nil, err
	}
	labels, err := s.labels.List(ctx, orgID)
	if err != nil {
		return nil, err
	}

	sess := &Session{ID: uuid.NewString(), OrgID: orgID, Created: time.Now()}
	log := s.logger.With(zap.String("session", sess.ID), zap.Int("org_id", orgID))
	sess.Store = store.New(store.Options{
		OrgID:       orgID,
		Persistence: s,
		Columns:     columns,
		Labels:      labels,
		Busy:        sess,
		Logger:      log,
	})
	_ = sess.Store.OnError(func(err error) { sess.lastErr.Store(err.Error()) })
	_ = sess.Store.OnChange(func(e store.Event) {
		log.Debug("Rules changed", zap.String("kind", string(e.Kind)), zap.String("field", e.Field))
	})

	if err := sess.Store.Fetch(ctx); err != nil {
		return nil, err
	}

	s.sessions.add(sess)
	log.Info("Opened editing session")
	return sess, nil
}

// CloseSession discards a session and its unsaved edits.
func (s *Service) CloseSession(id string) error {
	if !s.sessions.remove(id) {
		return ErrSessionNotFound
	}
	return nil
}

// WithSession runs fn while holding the session. A session already held answers ErrSessionBusy.
func (s *Service) WithSession(id string, fn func(*Session) error) error {
	sess, err := s.sessions.get(id)
	if err != nil {
		return err
	}
	if !sess.mu.TryLock() {
		return ErrSessionBusy
	}
	defer sess.mu.Unlock()
	sess.touch(s.sessions.now())
	defer sess.touch(s.sessions.now())

	return fn(sess)
}
