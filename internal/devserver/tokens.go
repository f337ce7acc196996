package devserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type cardClaims struct {
	CardID      uint64 `json:"card_id"`
	ProjectUUID string `json:"project_uuid"`
	jwt.RegisteredClaims
}

// tokenIssuer signs HS256 session tokens for logged in cards.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (t *tokenIssuer) issue(cardID uint64, projectUUID string) (string, time.Time, error) {
	now := t.now()
	expireAt := now.Add(t.ttl)

	claims := cardClaims{
		CardID:      cardID,
		ProjectUUID: projectUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expireAt, nil
}

func (t *tokenIssuer) validate(tokenString string) (*cardClaims, error) {
	claims := &cardClaims{}
	// expiry is checked below against the server clock
	parser := jwt.Parser{SkipClaimsValidation: true}

	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !t.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
