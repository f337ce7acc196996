package envelope

import (
	"fmt"
	"time"
)

// DefaultMaxSkew is the largest accepted distance between a peer timestamp and the local clock.
const DefaultMaxSkew = 300 * time.Second

// Guard holds the freshness policy. The zero value uses DefaultMaxSkew and time.Now.
type Guard struct {
	MaxSkew time.Duration
	Now     func() time.Time
}

func NewGuard(maxSkew time.Duration) *Guard {
	return &Guard{MaxSkew: maxSkew}
}

func (g *Guard) now() time.Time {
	if g == nil || g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

func (g *Guard) maxSkew() time.Duration {
	if g == nil || g.MaxSkew <= 0 {
		return DefaultMaxSkew
	}
	return g.MaxSkew
}

// Timestamp returns the local clock in unix seconds.
func (g *Guard) Timestamp() uint64 {
	return unixSeconds(g.now())
}

// CheckFresh accepts ts when |now - ts| <= MaxSkew, boundary included.
func (g *Guard) CheckFresh(ts uint64) error {
	now := unixSeconds(g.now())

	var diff uint64
	if ts > now {
		diff = ts - now
	} else {
		diff = now - ts
	}
	if limit := uint64(g.maxSkew() / time.Second); diff > limit {
		return fmt.Errorf("%w: %ds > %ds", ErrStaleTimestamp, diff, limit)
	}
	return nil
}

// unixSeconds clamps clocks before the epoch to zero.
func unixSeconds(t time.Time) uint64 {
	if sec := t.Unix(); sec > 0 {
		return uint64(sec)
	}
	return 0
}

func checkNonce(sentinel error, want, got string) error {
	if got != want {
		return fmt.Errorf("%w: want %q, got %q", sentinel, want, got)
	}
	return nil
}
