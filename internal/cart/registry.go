package cart

import (
	"sync"

	"github.com/gpt716169-creator/sheinwibe/internal/pricing"
)

// Registry keeps one Session per user for the lifetime of the process. Cart
// contents are never persisted here; each session is rebuilt from the cart
// collaborator on first access.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	pending  map[string]chan struct{}
	calc     *pricing.Calculator
}

func NewRegistry(calc *pricing.Calculator) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		pending:  make(map[string]chan struct{}),
		calc:     calc,
	}
}

// GetOrBootstrap returns the user's session, running bootstrap under a
// per-user gate when none exists yet. The session is published only after
// bootstrap succeeds, so no caller can observe a half-built cart: concurrent
// first requests for the same user wait for the one in-flight bootstrap and
// then share its result. A failed bootstrap publishes nothing and the next
// request retries it.
func (r *Registry) GetOrBootstrap(userID string, bootstrap func(*Session) error) (*Session, error) {
	for {
		r.mu.Lock()
		if session, ok := r.sessions[userID]; ok {
			r.mu.Unlock()
			return session, nil
		}
		if wait, ok := r.pending[userID]; ok {
			r.mu.Unlock()
			<-wait
			continue
		}
		done := make(chan struct{})
		r.pending[userID] = done
		r.mu.Unlock()

		session := NewSession(r.calc)
		err := bootstrap(session)

		r.mu.Lock()
		delete(r.pending, userID)
		if err == nil {
			r.sessions[userID] = session
		}
		r.mu.Unlock()
		close(done)

		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

// Drop removes a user's session, e.g. after a completed order.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// Snapshot returns a copy of the live session map for iteration.
func (r *Registry) Snapshot() map[string]*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]*Session, len(r.sessions))
	for id, session := range r.sessions {
		out[id] = session
	}
	return out
}
