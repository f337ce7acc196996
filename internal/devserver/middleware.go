package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/HYB-0225/nextkey/internal/envelope"
	"github.com/HYB-0225/nextkey/internal/repository/nonce_store"
	"github.com/didip/tollbooth/v7"
	toll_limiter "github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	ctxNonce   = "request_nonce"
	ctxPayload = "payload"
	ctxCardID  = "card_id"
)

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": status, "message": message})
}

// DecryptMiddleware opens the request envelope, records its nonce in the
// replay ledger and leaves the inner payload on the context.
func DecryptMiddleware(codec *envelope.Codec, nonces nonce_store.NonceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "devserver.DecryptMiddleware"

		var req envelope.Request
		body, err := c.GetRawData()
		if err != nil || json.Unmarshal(body, &req) != nil || req.Nonce == "" {
			abort(c, http.StatusBadRequest, "invalid request format")
			return
		}

		payload, err := codec.OpenRequest(req)
		switch {
		case errors.Is(err, envelope.ErrStaleTimestamp):
			abort(c, http.StatusUnauthorized, "request expired")
			return
		case errors.Is(err, envelope.ErrReplayOrTamper):
			logrus.Warnf("%s: %v", op, err)
			abort(c, http.StatusUnauthorized, "nonce verification failed")
			return
		case err != nil:
			abort(c, http.StatusBadRequest, "decrypt failed")
			return
		}

		if err := nonces.Remember(c.Request.Context(), req.Nonce); err != nil {
			if errors.Is(err, nonce_store.ErrReplay) {
				logrus.Warnf("%s: replayed nonce %s", op, req.Nonce)
				abort(c, http.StatusConflict, "replay detected")
				return
			}
			logrus.Errorf("%s: %v", op, err)
			abort(c, http.StatusInternalServerError, "internal error")
			return
		}

		c.Set(ctxNonce, req.Nonce)
		c.Set(ctxPayload, []byte(payload))
		c.Next()
	}
}

// AuthMiddleware requires a valid Bearer session token.
func AuthMiddleware(tokens *tokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "invalid token format")
			return
		}

		claims, err := tokens.validate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(ctxCardID, claims.CardID)
		c.Next()
	}
}

// NewIPRateLimiter allows maxReqs per second per remote address with the given burst.
func NewIPRateLimiter(maxReqs float64, burst int, ttl time.Duration) gin.HandlerFunc {
	lim := tollbooth.NewLimiter(maxReqs, &toll_limiter.ExpirableOptions{
		DefaultExpirationTTL: ttl,
	})
	lim.SetBurst(burst)
	lim.SetIPLookups([]string{"RemoteAddr"})

	return func(c *gin.Context) {
		if httpErr := tollbooth.LimitByRequest(lim, c.Writer, c.Request); httpErr != nil {
			abort(c, httpErr.StatusCode, "too many requests, try again later")
			return
		}
		c.Next()
	}
}
