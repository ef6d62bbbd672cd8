package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prasetyadi/meeting-summarizer/internal/domain"
)

// Store holds all live sessions in memory. It is the sole owner of session
// objects: reads hand out deep snapshots and writes go through Update, whose
// mutation runs inside a per-session critical section. Updates on different
// sessions never contend.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *domain.Session
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Create registers a new session for the given recording and returns a
// snapshot of it. The new session always starts with an empty conversation
// log.
func (s *Store) Create(audioFilename string) *domain.Session {
	sess := domain.NewSession(audioFilename)

	s.mu.Lock()
	s.entries[sess.ID] = &entry{session: sess}
	s.mu.Unlock()

	log.Info().Str("session_id", sess.ID).Str("filename", audioFilename).Msg("Session created")
	return sess.Clone()
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return e, nil
}

// Get returns a deep snapshot of the session, safe to read while concurrent
// updates happen elsewhere.
func (s *Store) Get(id string) (*domain.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

// Update applies fn to the session inside its critical section. The mutation
// is all-or-nothing: fn runs against a working copy and the result is only
// installed when fn succeeds, so an error never leaves a partially-applied
// state visible.
func (s *Store) Update(id string, fn func(*domain.Session) error) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// The session may have been deleted between lookup and acquiring the
	// entry lock.
	s.mu.RLock()
	cur, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || cur != e {
		return domain.ErrSessionNotFound
	}

	working := e.session.Clone()
	if err := fn(working); err != nil {
		return err
	}
	working.UpdatedAt = time.Now()
	e.session = working
	return nil
}

// Delete removes the session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.entries, id)

	log.Info().Str("session_id", id).Msg("Session deleted")
	return nil
}

// Exists reports whether the session is present.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[id]
	return ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// List returns snapshots of all live sessions in unspecified order.
func (s *Store) List() []*domain.Session {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sessions := make([]*domain.Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		sessions = append(sessions, e.session.Clone())
		e.mu.Unlock()
	}
	return sessions
}
