package session

import (
	"sync"

	"musicbot/internal/music/driver"
)

// Registry maps guild IDs to their playback sessions. Sessions are
// created lazily on first access and live for the process lifetime.
type Registry struct {
	drv driver.Driver

	mu       sync.Mutex
	sessions map[string]*Session
	onCreate func(*Session)
}

// NewRegistry creates an empty registry whose sessions stream through drv.
func NewRegistry(drv driver.Driver) *Registry {
	return &Registry{
		drv:      drv,
		sessions: make(map[string]*Session),
	}
}

// SetOnCreate installs a hook invoked once per newly created session,
// on its own goroutine. Must be set before any GetOrCreate call.
func (r *Registry) SetOnCreate(fn func(*Session)) {
	r.mu.Lock()
	r.onCreate = fn
	r.mu.Unlock()
}

// GetOrCreate returns the guild's session, creating it on first access.
// Concurrent first access yields exactly one session.
func (r *Registry) GetOrCreate(guildID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[guildID]
	if !ok {
		s = newSession(guildID, r.drv)
		r.sessions[guildID] = s
		if r.onCreate != nil {
			go r.onCreate(s)
		}
	}
	return s
}

// Get returns the guild's session without creating one.
func (r *Registry) Get(guildID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

// All returns a snapshot of every known session.
func (r *Registry) All() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
