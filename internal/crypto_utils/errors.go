package crypto_utils

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported encryption scheme")
	ErrInvalidKey        = errors.New("invalid key format")

	ErrMalformedBase64 = errors.New("malformed base64")
	ErrBlobTooShort    = errors.New("ciphertext too short")
	ErrAuthFailed      = errors.New("message authentication failed")
	ErrInvalidUTF8     = errors.New("decrypted data is not valid UTF-8")
)

// DecryptError is returned by every Engine.Decrypt failure. Cause is one of
// ErrMalformedBase64, ErrBlobTooShort, ErrAuthFailed or ErrInvalidUTF8.
type DecryptError struct {
	Scheme Scheme
	Cause  error
}

func (e *DecryptError) Error() string {
	return fmt.Sprintf("%s: decrypt failed: %v", e.Scheme, e.Cause)
}

func (e *DecryptError) Unwrap() error {
	return e.Cause
}

func decryptErr(s Scheme, cause error) error {
	return &DecryptError{Scheme: s, Cause: cause}
}

func keyErr(s Scheme, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", s, ErrInvalidKey, fmt.Sprintf(format, args...))
}
