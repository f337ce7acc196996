package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/HYB-0225/nextkey/internal/crypto_utils"
)

// Codec seals and opens the two-layer envelope for one cipher engine.
type Codec struct {
	engine crypto_utils.Engine
	guard  *Guard
}

// NewCodec returns a codec using engine. A nil guard means the default policy.
func NewCodec(engine crypto_utils.Engine, guard *Guard) *Codec {
	if guard == nil {
		guard = &Guard{}
	}
	return &Codec{engine: engine, guard: guard}
}

func (c *Codec) Scheme() crypto_utils.Scheme {
	return c.engine.Scheme()
}

// SealRequest wraps body with a fresh nonce and the current time.
func (c *Codec) SealRequest(body any) (Request, Pending, error) {
	nonce, err := crypto_utils.GenerateNonce()
	if err != nil {
		return Request{}, Pending{}, err
	}
	ts := c.guard.Timestamp()

	data, err := c.seal(Message[any]{Nonce: nonce, Timestamp: ts, Data: body})
	if err != nil {
		return Request{}, Pending{}, err
	}
	return Request{Timestamp: ts, Nonce: nonce, Data: data}, Pending{Nonce: nonce, Timestamp: ts}, nil
}

// OpenResponse verifies resp against the request it answers and returns the
// raw inner payload. Checks run in order: outer nonce, decrypt, inner nonce, freshness.
func (c *Codec) OpenResponse(resp Response, p Pending) (json.RawMessage, error) {
	if err := checkNonce(ErrOuterNonceMismatch, p.Nonce, resp.Nonce); err != nil {
		return nil, err
	}

	msg, err := c.open(resp.Data)
	if err != nil {
		return nil, err
	}
	if err := checkNonce(ErrInnerNonceMismatch, p.Nonce, msg.Nonce); err != nil {
		return nil, err
	}
	if err := c.guard.CheckFresh(msg.Timestamp); err != nil {
		return nil, err
	}
	return msg.Data, nil
}

// Open is OpenResponse decoding the payload into T.
func Open[T any](c *Codec, resp Response, p Pending) (T, error) {
	var out T
	raw, err := c.OpenResponse(resp, p)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}
	return out, nil
}

// OpenRequest is the receiving side of SealRequest. Replay of the nonce itself
// is left to the caller's ledger.
func (c *Codec) OpenRequest(req Request) (json.RawMessage, error) {
	if err := c.guard.CheckFresh(req.Timestamp); err != nil {
		return nil, err
	}

	msg, err := c.open(req.Data)
	if err != nil {
		return nil, err
	}
	if err := checkNonce(ErrInnerNonceMismatch, req.Nonce, msg.Nonce); err != nil {
		return nil, err
	}
	if msg.Timestamp != req.Timestamp {
		return nil, fmt.Errorf("%w: %d != %d", ErrTimestampMismatch, msg.Timestamp, req.Timestamp)
	}
	return msg.Data, nil
}

// SealResponse answers the request carrying nonce, stamping the local time.
func (c *Codec) SealResponse(nonce string, payload any) (Response, error) {
	data, err := c.seal(Message[any]{Nonce: nonce, Timestamp: c.guard.Timestamp(), Data: payload})
	if err != nil {
		return Response{}, err
	}
	return Response{Nonce: nonce, Data: data}, nil
}

func (c *Codec) seal(msg Message[any]) (string, error) {
	plain, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}
	return c.engine.Encrypt(string(plain))
}

func (c *Codec) open(data string) (Message[json.RawMessage], error) {
	var msg Message[json.RawMessage]

	plain, err := c.engine.Decrypt(data)
	if err != nil {
		return msg, err
	}
	if err := json.Unmarshal([]byte(plain), &msg); err != nil {
		return msg, fmt.Errorf("%w: inner message: %v", ErrMalformed, err)
	}
	return msg, nil
}
