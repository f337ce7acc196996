package envelope

import (
	"errors"
	"fmt"
)

// Request is the outer JSON body of every call.
type Request struct {
	Timestamp uint64 `json:"timestamp"`
	Nonce     string `json:"nonce"`
	Data      string `json:"data"`
}

// Response is the outer JSON body the server answers with.
type Response struct {
	Nonce string `json:"nonce"`
	Data  string `json:"data"`
}

// Message is the encrypted inner layer, the same shape in both directions.
type Message[T any] struct {
	Nonce     string `json:"nonce"`
	Timestamp uint64 `json:"timestamp"`
	Data      T      `json:"data"`
}

// Pending binds a sealed request to the response that must answer it.
type Pending struct {
	Nonce     string
	Timestamp uint64
}

var (
	// ErrReplayOrTamper is wrapped by every nonce and freshness failure.
	ErrReplayOrTamper = errors.New("replay or tamper detected")

	ErrOuterNonceMismatch = fmt.Errorf("%w: outer nonce mismatch", ErrReplayOrTamper)
	ErrInnerNonceMismatch = fmt.Errorf("%w: inner nonce mismatch", ErrReplayOrTamper)
	ErrTimestampMismatch  = fmt.Errorf("%w: inner timestamp differs from outer", ErrReplayOrTamper)
	ErrStaleTimestamp     = fmt.Errorf("%w: timestamp outside allowed skew", ErrReplayOrTamper)

	// ErrMalformed marks a layer that is not the expected JSON document.
	ErrMalformed = errors.New("malformed envelope")
)
