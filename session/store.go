// Package session keeps per-client state for the HTTP surface: the API keys
// a client registered and the last report produced for it. Keys live only in
// memory and die with the session.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"nichescope"
)

// ErrNotFound indicates the session token is unknown or expired.
var ErrNotFound = errors.New("session: not found")

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 2 * time.Hour

// Session is one client's state. Fields are copied out by the store; callers
// never share the internal instance.
type Session struct {
	Token       string
	Credentials nichescope.Credentials
	LastResult  *nichescope.Outcome
	touchedAt   time.Time
}

// Store is an in-memory session registry safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store. ttl <= 0 uses DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session and returns its token.
func (s *Store) Create() string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = &Session{Token: token, touchedAt: s.now()}
	return token
}

// Get returns a copy of the session and refreshes its TTL.
func (s *Store) Get(token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(token)
	if err != nil {
		return Session{}, err
	}
	sess.touchedAt = s.now()
	return *sess, nil
}

// SetCredentials stores the client's API keys.
func (s *Store) SetCredentials(token string, creds nichescope.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(token)
	if err != nil {
		return err
	}
	sess.Credentials = creds
	sess.touchedAt = s.now()
	return nil
}

// SetResult records the latest report for the session.
func (s *Store) SetResult(token string, out *nichescope.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(token)
	if err != nil {
		return err
	}
	sess.LastResult = out
	sess.touchedAt = s.now()
	return nil
}

// Delete removes a session. Deleting an unknown token is a no-op.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len reports the number of live sessions after purging expired ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, token)
		}
	}
	return len(s.sessions)
}

// lookup finds a live session. Caller holds s.mu.
func (s *Store) lookup(token string) (*Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(sess) {
		delete(s.sessions, token)
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) expired(sess *Session) bool {
	return s.now().Sub(sess.touchedAt) > s.ttl
}
