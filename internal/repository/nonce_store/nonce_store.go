package nonce_store

import (
	"context"
	"errors"
)

// ErrReplay is returned by Remember when the nonce was already seen within its TTL.
var ErrReplay = errors.New("nonce already used")

// NonceStore is the replay ledger of request nonces.
type NonceStore interface {
	// Remember records nonce. It returns ErrReplay if the nonce is already recorded.
	Remember(ctx context.Context, nonce string) error
}
