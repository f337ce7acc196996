package nonce_store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// memoryNonceStore keeps nonces in process; go-cache Add is atomic.
type memoryNonceStore struct {
	c   *cache.Cache
	ttl time.Duration
}

func NewMemoryNonceStore(ttl time.Duration) *memoryNonceStore {
	return &memoryNonceStore{
		c:   cache.New(ttl, 2*ttl),
		ttl: ttl,
	}
}

func (m *memoryNonceStore) Remember(_ context.Context, nonce string) error {
	if err := m.c.Add(nonce, struct{}{}, m.ttl); err != nil {
		return ErrReplay
	}
	return nil
}
