// Package registry maps stable admin/user identities to their live
// websocket sessions. It is the single source of truth for "online":
// a session exists exactly while its connection is registered.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Peer is the write side of one live connection. The handler wraps the
// real websocket connection; tests substitute fakes.
type Peer interface {
	Send(v interface{}) error
	Close() error
}

// Session is one live, registered connection bound to an identity.
// It is owned by the Registry for its lifetime.
type Session struct {
	Identity    string
	DisplayName string
	Role        string
	ConnID      string
	ConnectedAt time.Time

	peer Peer
}

// Send pushes a frame to the session's connection.
func (s *Session) Send(v interface{}) error {
	return s.peer.Send(v)
}

// Close closes the underlying connection.
func (s *Session) Close() error {
	return s.peer.Close()
}

// Peer returns the session's connection handle.
func (s *Session) Peer() Peer {
	return s.peer
}

// Registry holds the identity -> session map. All mutation goes through
// Register / UnregisterPeer; every other component only reads.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register binds identity to peer and returns the new session. A second
// registration for the same identity silently supersedes the prior one
// (last-writer-wins, models a reconnect from a new tab); the superseded
// session is returned so the caller can close its connection.
func (r *Registry) Register(identity, displayName, role string, peer Peer) (sess, prev *Session) {
	sess = &Session{
		Identity:    identity,
		DisplayName: displayName,
		Role:        role,
		ConnID:      uuid.NewString(),
		ConnectedAt: time.Now(),
		peer:        peer,
	}

	r.mu.Lock()
	prev = r.sessions[identity]
	r.sessions[identity] = sess
	r.mu.Unlock()

	return sess, prev
}

// Lookup returns the live session for identity, or nil.
func (r *Registry) Lookup(identity string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[identity]
}

// UnregisterPeer removes whichever session currently owns peer and
// returns it. Idempotent: a peer with no session (already removed, or
// superseded by a newer registration) is a no-op returning nil.
func (r *Registry) UnregisterPeer(peer Peer) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	for identity, sess := range r.sessions {
		if sess.peer == peer {
			delete(r.sessions, identity)
			return sess
		}
	}
	return nil
}

// All returns a snapshot of every live session. Mutations after the
// call do not affect the returned slice.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	return out
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
