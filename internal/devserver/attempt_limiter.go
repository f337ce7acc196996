package devserver

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// ctxFailedLogin is set by the login handler when the card was rejected.
const ctxFailedLogin = "failed_login"

// loginAttemptLimiter blocks an IP for blockFor after maxFailures rejected logins.
type loginAttemptLimiter struct {
	mu          sync.Mutex
	attempts    *cache.Cache
	maxFailures int
	blockFor    time.Duration
	now         func() time.Time
}

func newLoginAttemptLimiter(maxFailures int, blockFor time.Duration, now func() time.Time) *loginAttemptLimiter {
	return &loginAttemptLimiter{
		attempts:    cache.New(blockFor, time.Minute),
		maxFailures: maxFailures,
		blockFor:    blockFor,
		now:         now,
	}
}

func (l *loginAttemptLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.maxFailures <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()

		if blockedUntil, found := l.attempts.Get("block_" + ip); found {
			if t, ok := blockedUntil.(time.Time); ok && l.now().Before(t) {
				c.Header("Retry-After", formatSeconds(t.Sub(l.now())))
				abort(c, http.StatusTooManyRequests, "too many failed logins, try again later")
				return
			}
		}

		c.Next()

		if failed := c.GetBool(ctxFailedLogin); failed {
			l.recordFailure(ip)
		}
	}
}

func (l *loginAttemptLimiter) recordFailure(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := "fail_" + ip
	count := 0
	if raw, found := l.attempts.Get(key); found {
		count = raw.(int)
	}
	count++

	if count >= l.maxFailures {
		l.attempts.Set("block_"+ip, l.now().Add(l.blockFor), l.blockFor)
		l.attempts.Delete(key)
		return
	}
	l.attempts.Set(key, count, l.blockFor)
}

func formatSeconds(d time.Duration) string {
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}
