package tokens

import (
	"context"
	"sync"
	"time"
)

type MemoryRegistry struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (r *MemoryRegistry) Add(_ context.Context, token string, ttl time.Duration) error {
	removeAt := r.now().Add(retention(ttl))

	r.mu.Lock()
	r.tokens[fingerprint(token)] = removeAt
	r.mu.Unlock()
	return nil
}

func (r *MemoryRegistry) Contains(_ context.Context, token string) (bool, error) {
	key := fingerprint(token)

	r.mu.RLock()
	removeAt, ok := r.tokens[key]
	r.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if r.now().After(removeAt) {
		r.mu.Lock()
		delete(r.tokens, key)
		r.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (r *MemoryRegistry) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	delete(r.tokens, fingerprint(token))
	r.mu.Unlock()
	return nil
}

// Sweep drops entries past their retention and returns how many were removed.
func (r *MemoryRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for key, removeAt := range r.tokens {
		if now.After(removeAt) {
			delete(r.tokens, key)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *MemoryRegistry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(r.now())
		}
	}
}

func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}
