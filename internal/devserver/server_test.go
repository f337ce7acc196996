package devserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HYB-0225/nextkey/config"
	"github.com/HYB-0225/nextkey/internal/crypto_utils"
	"github.com/HYB-0225/nextkey/internal/devserver"
	"github.com/HYB-0225/nextkey/internal/envelope"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "632005a33ebb7619c1efd3853c7109f1c075c7bb86164e35da72916f9d4ef037"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.DevServerConfig {
	return config.DevServerConfig{
		JWTSecret: "jwt",
		TokenTTL:  time.Hour,
		NoncesTTL: time.Minute,
		MaxSkew:   envelope.DefaultMaxSkew,
		Project: config.ProjectConfig{
			UUID:   projectUUID,
			Scheme: "AES-256-GCM",
			Secret: secret,
		},
		Seed:    config.SeedConfig{Cards: []string{"AAAA"}, MaxHWID: -1, MaxIP: -1},
		Limiter: config.LimiterConfig{RPC: 1000, Burst: 1000, TTL: time.Minute},
	}
}

func clientCodec(t *testing.T, now time.Time) *envelope.Codec {
	t.Helper()
	engine, err := crypto_utils.NewEngineFromSecret(secret, crypto_utils.SchemeAES256GCM)
	require.NoError(t, err)
	return envelope.NewCodec(engine, &envelope.Guard{Now: func() time.Time { return now }})
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDecryptMiddleware_Rejections(t *testing.T) {
	srv, err := devserver.New(testConfig(), nil)
	require.NoError(t, err)
	h := srv.Handler()

	login := map[string]string{"project_uuid": projectUUID, "card_key": "AAAA"}

	w := post(t, h, "/api/auth/login", map[string]string{"hello": "world"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stale, _, err := clientCodec(t, time.Now().Add(-10*time.Minute)).SealRequest(login)
	require.NoError(t, err)
	w = post(t, h, "/api/auth/login", stale)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	fresh, _, err := clientCodec(t, time.Now()).SealRequest(login)
	require.NoError(t, err)
	w = post(t, h, "/api/auth/login", fresh)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(t, h, "/api/auth/login", fresh)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_ResponseEchoesNonce(t *testing.T) {
	srv, err := devserver.New(testConfig(), nil)
	require.NoError(t, err)

	codec := clientCodec(t, time.Now())
	req, pending, err := codec.SealRequest(map[string]string{"project_uuid": projectUUID, "card_key": "AAAA"})
	require.NoError(t, err)

	w := post(t, srv.Handler(), "/api/auth/login", req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, req.Nonce, resp.Nonce)

	type loginReply struct {
		Code int `json:"code"`
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	out, err := envelope.Open[loginReply](codec, resp, pending)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Code)
	assert.NotEmpty(t, out.Data.Token)
}

func TestAuthMiddleware_RequiresBearer(t *testing.T) {
	srv, err := devserver.New(testConfig(), nil)
	require.NoError(t, err)

	req, _, err := clientCodec(t, time.Now()).SealRequest(struct{}{})
	require.NoError(t, err)

	w := post(t, srv.Handler(), "/api/heartbeat", req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiter(t *testing.T) {
	cfg := testConfig()
	cfg.Limiter = config.LimiterConfig{RPC: 1, Burst: 1, TTL: time.Minute}
	srv, err := devserver.New(cfg, nil)
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, post(t, srv.Handler(), "/api/auth/login", struct{}{}).Code)
	}
	assert.Contains(t, codes, http.StatusTooManyRequests)
}

func TestNew_RejectsBadProjectKey(t *testing.T) {
	cfg := testConfig()
	cfg.Project.Secret = "short"
	_, err := devserver.New(cfg, nil)
	assert.ErrorIs(t, err, crypto_utils.ErrInvalidKey)

	cfg = testConfig()
	cfg.Project.Scheme = "des"
	_, err = devserver.New(cfg, nil)
	assert.ErrorIs(t, err, crypto_utils.ErrUnsupportedScheme)
}

func TestLoginAttemptLimiter_BlocksAfterFailures(t *testing.T) {
	cfg := testConfig()
	cfg.Limiter.MaxFailedLogins = 2
	cfg.Limiter.BlockDuration = time.Minute
	srv, err := devserver.New(cfg, nil)
	require.NoError(t, err)

	codec := clientCodec(t, time.Now())
	attempt := func(cardKey string) int {
		req, _, err := codec.SealRequest(map[string]string{"project_uuid": projectUUID, "card_key": cardKey})
		require.NoError(t, err)
		return post(t, srv.Handler(), "/api/auth/login", req).Code
	}

	assert.Equal(t, http.StatusOK, attempt("WRONG"))
	assert.Equal(t, http.StatusOK, attempt("WRONG"))
	assert.Equal(t, http.StatusTooManyRequests, attempt("AAAA"))
}

func TestDecryptMiddleware_NegativeTimestamp(t *testing.T) {
	srv, err := devserver.New(testConfig(), nil)
	require.NoError(t, err)

	req, _, err := clientCodec(t, time.Now()).SealRequest(map[string]string{"project_uuid": projectUUID, "card_key": "AAAA"})
	require.NoError(t, err)

	body := map[string]any{
		"timestamp": time.Now().Unix() + math.MinInt64,
		"nonce":     req.Nonce,
		"data":      req.Data,
	}
	w := post(t, srv.Handler(), "/api/auth/login", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type failingLedger struct{}

func (failingLedger) Remember(context.Context, string) error {
	return errors.New("ledger down")
}

func TestDecryptMiddleware_LedgerFailure(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	srv, err := devserver.New(testConfig(), failingLedger{})
	require.NoError(t, err)

	req, _, err := clientCodec(t, time.Now()).SealRequest(map[string]string{"project_uuid": projectUUID, "card_key": "AAAA"})
	require.NoError(t, err)

	w := post(t, srv.Handler(), "/api/auth/login", req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
