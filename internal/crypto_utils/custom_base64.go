package crypto_utils

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
	"unicode/utf8"
)

const (
	alphabetSize     = 64
	standardAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
)

// customBase64Engine encodes with the secret alphabet and wraps the result in
// standard base64. It is obfuscation, not encryption.
type customBase64Engine struct {
	encoding *base64.Encoding
}

func deriveCustomBase64Key(secret string) ([]byte, error) {
	if len(secret) != alphabetSize {
		return nil, keyErr(SchemeCustomBase64, "alphabet must be %d bytes, got %d", alphabetSize, len(secret))
	}

	var seen [256]bool
	for i := 0; i < len(secret); i++ {
		c := secret[i]
		switch {
		case c < 0x20 || c > 0x7e:
			return nil, keyErr(SchemeCustomBase64, "non-printable symbol at %d", i)
		case c == '=':
			return nil, keyErr(SchemeCustomBase64, "'=' is reserved for padding")
		case seen[c]:
			return nil, keyErr(SchemeCustomBase64, "duplicate symbol %q", c)
		}
		seen[c] = true
	}
	return []byte(secret), nil
}

func newCustomBase64Engine(key KeyMaterial) (Engine, error) {
	if _, err := deriveCustomBase64Key(string(key.raw)); err != nil {
		return nil, err
	}
	return &customBase64Engine{encoding: base64.NewEncoding(string(key.raw))}, nil
}

func (e *customBase64Engine) Scheme() Scheme {
	return SchemeCustomBase64
}

func (e *customBase64Engine) Encrypt(plaintext string) (string, error) {
	inner := e.encoding.EncodeToString([]byte(plaintext))
	return base64.StdEncoding.EncodeToString([]byte(inner)), nil
}

func (e *customBase64Engine) Decrypt(ciphertext string) (string, error) {
	inner, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", decryptErr(SchemeCustomBase64, ErrMalformedBase64)
	}
	plain, err := e.encoding.DecodeString(string(inner))
	if err != nil {
		return "", decryptErr(SchemeCustomBase64, ErrMalformedBase64)
	}
	if !utf8.Valid(plain) {
		return "", decryptErr(SchemeCustomBase64, ErrInvalidUTF8)
	}
	return string(plain), nil
}

// generateAlphabet returns a uniformly shuffled standard alphabet.
func generateAlphabet() (string, error) {
	chars := []byte(standardAlphabet)
	for i := len(chars) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		k := j.Int64()
		chars[i], chars[k] = chars[k], chars[i]
	}
	return string(chars), nil
}

func init() {
	register(factory{
		meta: Meta{
			Scheme:        SchemeCustomBase64,
			Name:          "Custom Base64",
			Description:   "Base64 over a secret shuffled alphabet, obfuscation only",
			SecurityLevel: SecurityInsecure,
		},
		newEngine:   newCustomBase64Engine,
		deriveKey:   deriveCustomBase64Key,
		generateKey: generateAlphabet,
	})
}
