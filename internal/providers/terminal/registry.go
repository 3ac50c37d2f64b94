package terminal

import (
	"sync"

	"github.com/tabshell/tabshell/backend/internal/shared/id"
)

// Registry owns the process-wide table of live sessions. It is constructed
// once per server and handed to the Controller; the lock covers map
// mutations only and is never held across PTY I/O. The table is purely
// in-memory and rebuilt empty on every restart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[id.SessionID]*Session),
	}
}

// Insert registers a session under its id.
func (r *Registry) Insert(sess *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID] = sess
}

// Get returns the session for the given id.
func (r *Registry) Get(sessionID id.SessionID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[sessionID]
	return sess, ok
}

// Remove drops the session from the table. Removal happens only after the
// session reached a terminal state and its PTY was released.
func (r *Registry) Remove(sessionID id.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// List returns the registered sessions in unspecified order.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	return out
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
