package crypto_utils

import (
	"crypto/rc4"
	"encoding/base64"
	"unicode/utf8"
)

const rc4MaxKeySize = 256

// rc4Engine has no nonce: equal plaintexts give equal ciphertexts.
type rc4Engine struct {
	key []byte
}

func deriveRC4Key(secret string) ([]byte, error) {
	key := hexOrRaw(secret)
	if len(key) == 0 {
		return nil, keyErr(SchemeRC4, "empty key")
	}
	if len(key) > rc4MaxKeySize {
		return nil, keyErr(SchemeRC4, "key longer than %d bytes", rc4MaxKeySize)
	}
	return key, nil
}

func newRC4Engine(key KeyMaterial) (Engine, error) {
	if _, err := rc4.NewCipher(key.raw); err != nil {
		return nil, keyErr(SchemeRC4, "%v", err)
	}
	return &rc4Engine{key: key.Bytes()}, nil
}

func (e *rc4Engine) Scheme() Scheme {
	return SchemeRC4
}

// keystream starts a fresh cipher per call; rc4.Cipher is stateful.
func (e *rc4Engine) keystream(dst, src []byte) error {
	c, err := rc4.NewCipher(e.key)
	if err != nil {
		return keyErr(SchemeRC4, "%v", err)
	}
	c.XORKeyStream(dst, src)
	return nil
}

func (e *rc4Engine) Encrypt(plaintext string) (string, error) {
	out := make([]byte, len(plaintext))
	if err := e.keystream(out, []byte(plaintext)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

func (e *rc4Engine) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", decryptErr(SchemeRC4, ErrMalformedBase64)
	}
	plain := make([]byte, len(data))
	if err := e.keystream(plain, data); err != nil {
		return "", err
	}
	if !utf8.Valid(plain) {
		return "", decryptErr(SchemeRC4, ErrInvalidUTF8)
	}
	return string(plain), nil
}

func init() {
	register(factory{
		meta: Meta{
			Scheme:        SchemeRC4,
			Name:          "RC4",
			Description:   "Legacy stream cipher kept for compatibility only",
			SecurityLevel: SecurityInsecure,
			Deprecated:    true,
		},
		newEngine:   newRC4Engine,
		deriveKey:   deriveRC4Key,
		generateKey: generateHexKey,
	})
}
