package crypto_utils

import (
	"encoding/base64"
	"encoding/hex"
)

const aeadKeySize = 32

// KeyMaterial is the raw key derived for one scheme. It is immutable once built.
type KeyMaterial struct {
	scheme Scheme
	raw    []byte
}

// DeriveKey turns the configured secret into key material for scheme. The
// derivation rules are fixed by the server and must not change.
func DeriveKey(secret string, scheme Scheme) (KeyMaterial, error) {
	f, err := lookup(scheme)
	if err != nil {
		return KeyMaterial{}, err
	}
	raw, err := f.deriveKey(secret)
	if err != nil {
		return KeyMaterial{}, err
	}
	return KeyMaterial{scheme: scheme, raw: raw}, nil
}

func (k KeyMaterial) Scheme() Scheme {
	return k.scheme
}

// Bytes returns a copy of the raw key.
func (k KeyMaterial) Bytes() []byte {
	out := make([]byte, len(k.raw))
	copy(out, k.raw)
	return out
}

func (k KeyMaterial) Len() int {
	return len(k.raw)
}

// base64 first, then the first 32 bytes of a 64 byte string, then the raw string.
func deriveAESKey(secret string) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(secret); err == nil && len(decoded) == aeadKeySize {
		return decoded, nil
	}
	if len(secret) == 2*aeadKeySize {
		return []byte(secret)[:aeadKeySize], nil
	}
	if len(secret) != aeadKeySize {
		return nil, keyErr(SchemeAES256GCM, "want 32 bytes, got %d", len(secret))
	}
	return []byte(secret), nil
}

// hex first, then base64, then the raw string.
func deriveChaCha20Key(secret string) ([]byte, error) {
	if decoded, err := hex.DecodeString(secret); err == nil && len(decoded) == aeadKeySize {
		return decoded, nil
	}
	if decoded, err := base64.StdEncoding.DecodeString(secret); err == nil && len(decoded) == aeadKeySize {
		return decoded, nil
	}
	if len(secret) != aeadKeySize {
		return nil, keyErr(SchemeChaCha20Poly1305, "want 32 bytes, got %d", len(secret))
	}
	return []byte(secret), nil
}

// hexOrRaw is shared by the legacy schemes: hex if it parses, raw bytes otherwise.
func hexOrRaw(secret string) []byte {
	if decoded, err := hex.DecodeString(secret); err == nil {
		return decoded
	}
	return []byte(secret)
}
