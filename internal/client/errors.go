package client

import (
	"errors"
	"fmt"

	"github.com/HYB-0225/nextkey/internal/crypto_utils"
	"github.com/HYB-0225/nextkey/internal/dto"
	"github.com/HYB-0225/nextkey/internal/envelope"
)

// Kind classifies every error returned by Client.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidParameter
	KindNetwork
	KindDecrypt
	KindReplayOrTamper
	KindAuthenticationRequired
	KindBusiness
)

func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "invalid parameter"
	case KindNetwork:
		return "network error"
	case KindDecrypt:
		return "decrypt error"
	case KindReplayOrTamper:
		return "replay or tamper"
	case KindAuthenticationRequired:
		return "authentication required"
	case KindBusiness:
		return "business error"
	default:
		return "unknown error"
	}
}

var (
	ErrAuthenticationRequired = errors.New("not logged in, call Login first")
	ErrMissingToken           = errors.New("login succeeded without a token")
)

// Error carries the Kind, the operation and the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, KindUnknown when err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// classify maps lower layer errors onto a Kind.
func classify(op string, err error) *Error {
	var (
		already *Error
		de      *crypto_utils.DecryptError
		be      *dto.BusinessError
	)
	switch {
	case errors.As(err, &already):
		return already
	case errors.Is(err, envelope.ErrReplayOrTamper):
		return newError(KindReplayOrTamper, op, err)
	case errors.As(err, &de), errors.Is(err, envelope.ErrMalformed):
		return newError(KindDecrypt, op, err)
	case errors.Is(err, crypto_utils.ErrInvalidKey), errors.Is(err, crypto_utils.ErrUnsupportedScheme):
		return newError(KindInvalidParameter, op, err)
	case errors.As(err, &be):
		return newError(KindBusiness, op, err)
	default:
		return newError(KindUnknown, op, err)
	}
}

// BusinessErr converts a failed response into a KindBusiness *Error, nil on success.
func BusinessErr[T any](op string, resp dto.APIResponse[T]) error {
	if err := resp.Err(); err != nil {
		return newError(KindBusiness, op, err)
	}
	return nil
}
