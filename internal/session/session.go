// Package session hosts filtering sessions: one filter engine per caller,
// keyed by id, evicted after a period of inactivity.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/stacklok/wordfinder/internal/filtering"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the session cap is reached
	ErrTooManySessions = errors.New("too many sessions")
)

// Session owns one filter engine and the word list it narrows.
// All access goes through mu.
type Session struct {
	mu sync.Mutex

	id       string
	language string
	length   int

	engine *filtering.Engine
	words  []string

	createdAt  time.Time
	lastAccess time.Time

	// removed is set once the session has left the manager's map
	removed bool
}

// View is a copy of a session's public state
type View struct {
	ID         string          `json:"id,omitempty"`
	Language   string          `json:"language"`
	Length     int             `json:"length"`
	State      filtering.State `json:"state"`
	Count      int             `json:"count"`
	CreatedAt  time.Time       `json:"createdAt,omitzero"`
	LastAccess time.Time       `json:"lastAccess,omitzero"`
}

// Result is the outcome of one filter operation on a session
type Result struct {
	View

	// Applied is false when the request was rejected by a conflict
	Applied bool `json:"applied"`
	// Conflict names the letters that caused a rejection
	Conflict string `json:"conflict,omitempty"`
	// Contradictions names pattern letters that are currently excluded
	Contradictions string `json:"contradictions,omitempty"`
	// Unsatisfiable names included letters the pattern has no room for
	Unsatisfiable string `json:"unsatisfiable,omitempty"`
	// Words is the word list after the operation
	Words []string `json:"words"`
}

// view must be called with s.mu held
func (s *Session) view() View {
	return View{
		ID:         s.id,
		Language:   s.language,
		Length:     s.length,
		State:      s.engine.Snapshot(),
		Count:      len(s.words),
		CreatedAt:  s.createdAt,
		LastAccess: s.lastAccess,
	}
}

// expired reports whether the session has been idle for longer than ttl.
// Must be called with s.mu held.
func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.lastAccess) > ttl
}

// live reports whether the session can still be used. Must be called with s.mu held.
func (s *Session) live(now time.Time, ttl time.Duration) bool {
	return !s.removed && !s.expired(now, ttl)
}
