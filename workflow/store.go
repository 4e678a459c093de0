package workflow

import (
	"slices"
	"sync"
	"time"
)

type storeEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIdleTTL drops sessions that have not been looked up for d. Zero keeps
// sessions until they are deleted.
func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.ttl = d }
}

// WithMaxSessions caps the number of live sessions. Zero means no cap.
func WithMaxSessions(n int) StoreOption {
	return func(s *Store) { s.max = n }
}

func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store keeps the live sessions by ID. Every Get counts as activity.
type Store struct {
	sessions map[string]*storeEntry
	mu       sync.Mutex

	ttl time.Duration
	max int
	now func() time.Time
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*storeEntry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers c. Expired sessions are dropped first; if the store is
// still full, c is not added and ErrTooManySessions is returned.
func (s *Store) Add(c *Controller) error {
	now := s.now()

	s.mu.Lock()
	expired := s.expireLocked(now)
	full := s.max > 0 && len(s.sessions) >= s.max
	if !full {
		s.sessions[c.ID()] = &storeEntry{ctrl: c, lastSeen: now}
	}
	s.mu.Unlock()

	closeAll(expired)
	if full {
		return ErrTooManySessions
	}
	return nil
}

func (s *Store) Get(id string) (*Controller, error) {
	now := s.now()

	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok && s.expired(e, now) {
		delete(s.sessions, id)
		s.mu.Unlock()
		e.ctrl.Close()
		return nil, ErrSessionNotFound
	}
	if ok {
		e.lastSeen = now
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return e.ctrl, nil
}

// Delete closes and forgets the session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	e.ctrl.Close()
	return nil
}

// Sweep closes the sessions that have been idle longer than the TTL and
// returns how many there were.
func (s *Store) Sweep() int {
	s.mu.Lock()
	expired := s.expireLocked(s.now())
	s.mu.Unlock()

	closeAll(expired)
	return len(expired)
}

func (s *Store) expired(e *storeEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.lastSeen) > s.ttl
}

func (s *Store) expireLocked(now time.Time) []*Controller {
	var expired []*Controller
	for id, e := range s.sessions {
		if s.expired(e, now) {
			expired = append(expired, e.ctrl)
			delete(s.sessions, id)
		}
	}
	return expired
}

func closeAll(ctrls []*Controller) {
	for _, c := range ctrls {
		c.Close()
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// IDs returns the session IDs in sorted order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// CloseAll closes every session, for shutdown.
func (s *Store) CloseAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*storeEntry)
	s.mu.Unlock()

	for _, e := range sessions {
		e.ctrl.Close()
	}
}
