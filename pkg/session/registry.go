package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"parkorder/pkg/cart"
	"parkorder/pkg/checkout"
	"parkorder/pkg/logger"
	"parkorder/pkg/notify"
)

// Session is the ordering state of one logged-in guest: a cart, the
// workflow that submits it and the notifications waiting to be shown.
type Session struct {
	ID       string
	User     string
	Cart     *cart.Cart
	Checkout *checkout.Workflow
	Feed     *notify.Feed
}

// Registry holds the live sessions of this process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	creator  checkout.Creator
	opts     []checkout.Option
}

// NewRegistry returns a Registry whose workflows submit through creator.
func NewRegistry(creator checkout.Creator, opts ...checkout.Option) *Registry {
	return &Registry{sessions: make(map[string]*Session), creator: creator, opts: opts}
}

// Get returns the session for id, starting a fresh one with an empty cart on
// first use.
func (r *Registry) Get(id, user string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	c := cart.New()
	feed := notify.NewFeed(notify.DefaultCapacity)
	opts := append([]checkout.Option{checkout.WithNotifier(feed)}, r.opts...)
	s := &Session{
		ID:       id,
		User:     user,
		Cart:     c,
		Checkout: checkout.New(c, r.creator, opts...),
		Feed:     feed,
	}
	r.sessions[id] = s
	return s
}

// Remove drops the session for id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Checkout.Close()
	}
}

// Sweep drops the sessions store no longer knows, ending their workflows.
// Sessions whose lookup fails for another reason are kept. It returns the
// number of sessions dropped.
func (r *Registry) Sweep(ctx context.Context, store Store) (int, error) {
	r.mu.Lock()
	live := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.mu.Unlock()

	var (
		dropped int
		errs    []error
	)
	for _, s := range live {
		_, err := store.User(ctx, s.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNoSession) {
			errs = append(errs, err)
			continue
		}
		r.mu.Lock()
		cur, ok := r.sessions[s.ID]
		if ok && cur == s {
			delete(r.sessions, s.ID)
		}
		r.mu.Unlock()
		if ok && cur == s {
			s.Checkout.Close()
			dropped++
		}
	}
	return dropped, errors.Join(errs...)
}

// Run sweeps against store every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, store Store, every time.Duration, log *logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := r.Sweep(ctx, store)
			if err != nil {
				log.Warn(ctx, "sweep sessions", "error", err)
			}
			if n > 0 {
				log.Debug(ctx, "expired sessions dropped", "count", n, "live", r.Len())
			}
		}
	}
}

// Close ends every workflow, settling carts still inside a grace period, and
// empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range all {
		s.Checkout.Close()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
