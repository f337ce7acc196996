package client_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HYB-0225/nextkey/config"
	"github.com/HYB-0225/nextkey/internal/crypto_utils"
	"github.com/HYB-0225/nextkey/internal/devserver"
	"github.com/HYB-0225/nextkey/internal/envelope"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	projectUUID = "6f1c2a7e-5b7d-4c1e-9a0b-3e2f4d5c6b7a"
	cardKey     = "ABCD-1234-EFGH"
	hexSecret   = "632005a33ebb7619c1efd3853c7109f1c075c7bb86164e35da72916f9d4ef037"
	alphabet    = "ZYXWVUTSRQPONMLKJIHGFEDCBAzyxwvutsrqponmlkjihgfedcba9876543210+/"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func secretFor(scheme crypto_utils.Scheme) string {
	if scheme == crypto_utils.SchemeCustomBase64 {
		return alphabet
	}
	return hexSecret
}

func devConfig(scheme crypto_utils.Scheme) config.DevServerConfig {
	return config.DevServerConfig{
		JWTSecret: "dev-jwt-secret",
		TokenTTL:  time.Hour,
		NoncesTTL: 10 * time.Minute,
		MaxSkew:   envelope.DefaultMaxSkew,
		Project: config.ProjectConfig{
			UUID:         projectUUID,
			Name:         "Demo",
			Version:      "1.2.3",
			UpdateURL:    "https://example.com/update",
			Scheme:       scheme.String(),
			Secret:       secretFor(scheme),
			EnableUnbind: true,
		},
		Seed: config.SeedConfig{
			Cards:        []string{cardKey},
			CardDuration: 24 * time.Hour,
			MaxHWID:      -1,
			MaxIP:        -1,
			CloudVars:    map[string]string{"motd": "hello"},
		},
		Limiter: config.LimiterConfig{RPC: 1000, Burst: 1000, TTL: time.Minute},
	}
}

func startDevServer(t *testing.T, cfg config.DevServerConfig) (*devserver.Server, *httptest.Server) {
	t.Helper()
	srv, err := devserver.New(cfg, nil)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

type transportFunc func(*http.Request) (*http.Response, error)

func (f transportFunc) Do(r *http.Request) (*http.Response, error) {
	return f(r)
}

// countingTransport fails the test run if anything reaches the network.
type countingTransport struct {
	calls int32
}

func (c *countingTransport) Do(r *http.Request) (*http.Response, error) {
	atomic.AddInt32(&c.calls, 1)
	return http.DefaultClient.Do(r)
}

// rewriteResponse passes the request through and lets fn edit the outer response envelope.
func rewriteResponse(fn func(*envelope.Response)) transportFunc {
	return func(r *http.Request) (*http.Response, error) {
		resp, err := http.DefaultClient.Do(r)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var env envelope.Response
		if err := json.Unmarshal(body, &env); err == nil {
			fn(&env)
			body, _ = json.Marshal(env)
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
		resp.ContentLength = int64(len(body))
		return resp, nil
	}
}

// fakeServer answers every request with payload sealed under its own clock.
func fakeServer(t *testing.T, now func() time.Time, payload any) *httptest.Server {
	t.Helper()
	engine, err := crypto_utils.NewEngineFromSecret(hexSecret, crypto_utils.SchemeAES256GCM)
	require.NoError(t, err)
	codec := envelope.NewCodec(engine, &envelope.Guard{Now: now})

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req envelope.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := codec.SealResponse(req.Nonce, payload)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(ts.Close)
	return ts
}
