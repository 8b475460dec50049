package pos

import "sync"

// Registry hands out one Session per staff terminal, created on first use.
// The whole registry is process memory by design: restarting the service
// resets every terminal.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	pricer   Pricer
}

func NewRegistry(pricer Pricer) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		pricer:   pricer,
	}
}

func (r *Registry) Get(terminalID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[terminalID]
	if !ok {
		session = NewSession(r.pricer)
		r.sessions[terminalID] = session
	}

	return session
}

// Drop discards a terminal's session, equivalent to the terminal reloading.
func (r *Registry) Drop(terminalID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, terminalID)
}
