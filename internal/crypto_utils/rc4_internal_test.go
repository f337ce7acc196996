package crypto_utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRC4Engine_BadKeyIsError(t *testing.T) {
	e := &rc4Engine{}

	assert.NotPanics(t, func() {
		_, err := e.Encrypt("hi")
		assert.ErrorIs(t, err, ErrInvalidKey)

		_, err = e.Decrypt("aGk=")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}
