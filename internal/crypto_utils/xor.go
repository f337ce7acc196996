package crypto_utils

import (
	"encoding/base64"
	"unicode/utf8"
)

type xorEngine struct {
	key []byte
}

func deriveXORKey(secret string) ([]byte, error) {
	key := hexOrRaw(secret)
	if len(key) == 0 {
		return nil, keyErr(SchemeXOR, "empty key")
	}
	return key, nil
}

func newXOREngine(key KeyMaterial) (Engine, error) {
	if key.Len() == 0 {
		return nil, keyErr(SchemeXOR, "empty key")
	}
	return &xorEngine{key: key.Bytes()}, nil
}

func (e *xorEngine) Scheme() Scheme {
	return SchemeXOR
}

func (e *xorEngine) apply(data []byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ e.key[i%len(e.key)]
	}
	return out
}

func (e *xorEngine) Encrypt(plaintext string) (string, error) {
	return base64.StdEncoding.EncodeToString(e.apply([]byte(plaintext))), nil
}

func (e *xorEngine) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", decryptErr(SchemeXOR, ErrMalformedBase64)
	}
	plain := e.apply(data)
	if !utf8.Valid(plain) {
		return "", decryptErr(SchemeXOR, ErrInvalidUTF8)
	}
	return string(plain), nil
}

func init() {
	register(factory{
		meta: Meta{
			Scheme:        SchemeXOR,
			Name:          "XOR",
			Description:   "Repeating-key XOR kept for compatibility only",
			SecurityLevel: SecurityInsecure,
			Deprecated:    true,
		},
		newEngine:   newXOREngine,
		deriveKey:   deriveXORKey,
		generateKey: generateHexKey,
	})
}
