package crypto_utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// NonceSize is the number of random bytes behind every envelope nonce.
const NonceSize = 24

// GenerateNonce returns 24 random bytes as unpadded URL-safe base64 (32 chars).
func GenerateNonce() (string, error) {
	buf := make([]byte, NonceSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
