package terminal

import "sync"

// registry is the single shared map of live sessions, owned by the
// Supervisor. Removal is idempotent by design: the exit path and an explicit
// kill may race, and whichever loses must observe a clean no-op.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*Session)}
}

func (r *registry) insert(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *registry) get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// remove deletes the session if present and reports whether it was there.
func (r *registry) remove(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

func (r *registry) list() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
