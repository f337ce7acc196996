package devserver

import (
	"context"
	"fmt"

	"github.com/HYB-0225/nextkey/config"
	"github.com/HYB-0225/nextkey/internal/repository/nonce_store"
	"github.com/go-redis/redis/v8"
)

// Open builds a Server whose replay ledger lives in redis when
// cfg.RedisAddress is set and in memory otherwise. The returned func
// releases the ledger connection.
func Open(ctx context.Context, cfg config.DevServerConfig, opts ...Option) (*Server, func() error, error) {
	if cfg.RedisAddress == "" {
		srv, err := New(cfg, nonce_store.NewMemoryNonceStore(cfg.NoncesTTL), opts...)
		if err != nil {
			return nil, nil, err
		}
		return srv, func() error { return nil }, nil
	}

	rClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	if err := rClient.Ping(ctx).Err(); err != nil {
		rClient.Close()
		return nil, nil, fmt.Errorf("redis connection error: %w", err)
	}

	srv, err := New(cfg, nonce_store.NewRedisNonceStore(rClient, cfg.NoncesTTL), opts...)
	if err != nil {
		rClient.Close()
		return nil, nil, err
	}
	return srv, rClient.Close, nil
}
