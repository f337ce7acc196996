package nonce_store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisNonceStore shares the ledger between server instances.
type redisNonceStore struct {
	cli     *redis.Client
	ttl     time.Duration
	keyPref string
}

func NewRedisNonceStore(cli *redis.Client, ttl time.Duration) *redisNonceStore {
	return &redisNonceStore{
		cli:     cli,
		ttl:     ttl,
		keyPref: "nextkey:nonce:",
	}
}

// Remember uses SET NX so that check and insert are one operation.
func (r *redisNonceStore) Remember(ctx context.Context, nonce string) error {
	const op = "nonce_store.redisNonceStore.Remember"

	ok, err := r.cli.SetNX(ctx, r.keyPref+nonce, "1", r.ttl).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return ErrReplay
	}
	return nil
}
