package crypto_utils

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Scheme identifies one of the symmetric envelope ciphers shared with the server.
type Scheme string

const (
	SchemeAES256GCM        Scheme = "aes-256-gcm"
	SchemeChaCha20Poly1305 Scheme = "chacha20-poly1305"
	SchemeRC4              Scheme = "rc4"
	SchemeXOR              Scheme = "xor"
	SchemeCustomBase64     Scheme = "custom-base64"
)

const (
	SecuritySecure   = "secure"
	SecurityInsecure = "insecure"
)

// Meta describes a registered scheme.
type Meta struct {
	Scheme        Scheme `json:"scheme"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	SecurityLevel string `json:"security_level"`
	Deprecated    bool   `json:"is_deprecated"`
}

type factory struct {
	meta        Meta
	newEngine   func(key KeyMaterial) (Engine, error)
	deriveKey   func(secret string) ([]byte, error)
	generateKey func() (string, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[Scheme]*factory)
)

func register(f factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[f.meta.Scheme] = &f
}

func lookup(s Scheme) (*factory, error) {
	registryMu.RLock()
	f, ok := registry[s]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, string(s))
	}
	return f, nil
}

// ParseScheme maps a configuration string onto a registered scheme.
// Matching ignores case and surrounding whitespace.
func ParseScheme(s string) (Scheme, error) {
	scheme := Scheme(strings.ToLower(strings.TrimSpace(s)))
	if _, err := lookup(scheme); err != nil {
		return "", err
	}
	return scheme, nil
}

func (s Scheme) String() string {
	return string(s)
}

// Authenticated reports whether the scheme detects tampering on its own.
func (s Scheme) Authenticated() bool {
	return s == SchemeAES256GCM || s == SchemeChaCha20Poly1305
}

// ListSchemes returns the metadata of every registered scheme sorted by id.
func ListSchemes() []Meta {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Meta, 0, len(registry))
	for _, f := range registry {
		out = append(out, f.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Scheme < out[j].Scheme })
	return out
}

// GetMeta returns the metadata of a single scheme.
func GetMeta(s Scheme) (Meta, error) {
	f, err := lookup(s)
	if err != nil {
		return Meta{}, err
	}
	return f.meta, nil
}

// GenerateKey returns a fresh secret string accepted by DeriveKey for the scheme.
func GenerateKey(s Scheme) (string, error) {
	f, err := lookup(s)
	if err != nil {
		return "", err
	}
	return f.generateKey()
}
