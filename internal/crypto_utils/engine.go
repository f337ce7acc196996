package crypto_utils

// Engine encrypts and decrypts envelope payloads for a single scheme.
// Implementations hold no mutable state and are safe for concurrent use.
type Engine interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
	Scheme() Scheme
}

// NewEngine builds the engine registered for the key's scheme.
func NewEngine(key KeyMaterial) (Engine, error) {
	f, err := lookup(key.scheme)
	if err != nil {
		return nil, err
	}
	return f.newEngine(key)
}

// NewEngineFromSecret derives the key and builds the engine in one step.
func NewEngineFromSecret(secret string, scheme Scheme) (Engine, error) {
	key, err := DeriveKey(secret, scheme)
	if err != nil {
		return nil, err
	}
	return NewEngine(key)
}
