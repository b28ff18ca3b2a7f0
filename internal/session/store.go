// Package session keeps per-session conversation history in process
// memory. Sessions are created lazily on first reference and never
// evicted here; persistence and TTL belong to an outer layer.
package session

import (
	"sync"
	"time"

	"github.com/LucaLucareli/assessor/internal/core"
)

type Turn struct {
	Role      string
	Text      string
	Timestamp time.Time
}

type Session struct {
	ID    string
	Turns []Turn
}

// Store is a process-wide keyed map of sessions. Reads return copies so
// callers cannot mutate history behind the store's back.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	locks    map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
	}
}

// GetOrCreate returns a snapshot of the session, creating it if the id
// is new.
func (s *Store) GetOrCreate(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	return snapshot(sess)
}

// Append adds one turn with the current timestamp.
func (s *Store) Append(id, role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrCreateLocked(id)
	sess.Turns = append(sess.Turns, Turn{Role: role, Text: text, Timestamp: time.Now()})
}

// History returns the last n turns as chat messages, oldest first.
// n <= 0 returns everything.
func (s *Store) History(id string, n int) []core.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	turns := sess.Turns
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	msgs := make([]core.Message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, core.Message{Role: t.Role, Content: t.Text})
	}
	return msgs
}

// Acquire serializes work on one session id. Turns for the same session
// run one at a time so history append order matches turn order; distinct
// sessions never block each other. The returned func releases the slot.
func (s *Store) Acquire(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Store) getOrCreateLocked(id string) *Session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		s.sessions[id] = sess
	}
	return sess
}

func snapshot(sess *Session) Session {
	out := Session{ID: sess.ID, Turns: make([]Turn, len(sess.Turns))}
	copy(out.Turns, sess.Turns)
	return out
}
