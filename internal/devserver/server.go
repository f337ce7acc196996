package devserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/HYB-0225/nextkey/config"
	"github.com/HYB-0225/nextkey/internal/crypto_utils"
	"github.com/HYB-0225/nextkey/internal/envelope"
	"github.com/HYB-0225/nextkey/internal/repository/nonce_store"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Server answers the client endpoints for a single project. It exists for
// development and tests only.
type Server struct {
	cfg      config.DevServerConfig
	codec    *envelope.Codec
	nonces   nonce_store.NonceStore
	store    *Store
	tokens   *tokenIssuer
	attempts *loginAttemptLimiter
	validate *validator.Validate
	engine   *gin.Engine
	now      func() time.Time
}

type Option func(*Server)

// WithClock replaces the server clock.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func New(cfg config.DevServerConfig, nonces nonce_store.NonceStore, opts ...Option) (*Server, error) {
	scheme, err := crypto_utils.ParseScheme(cfg.Project.Scheme)
	if err != nil {
		return nil, err
	}
	engine, err := crypto_utils.NewEngineFromSecret(cfg.Project.Secret, scheme)
	if err != nil {
		return nil, fmt.Errorf("project key: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		nonces:   nonces,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.nonces == nil {
		s.nonces = nonce_store.NewMemoryNonceStore(cfg.NoncesTTL)
	}

	s.codec = envelope.NewCodec(engine, &envelope.Guard{MaxSkew: cfg.MaxSkew, Now: s.now})
	s.store = NewStore(cfg.Project, cfg.Seed, s.now)
	s.tokens = &tokenIssuer{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL, now: s.now}
	s.attempts = newLoginAttemptLimiter(cfg.Limiter.MaxFailedLogins, cfg.Limiter.BlockDuration, s.now)
	s.engine = s.routes()

	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	limiter := NewIPRateLimiter(s.cfg.Limiter.RPC, s.cfg.Limiter.Burst, s.cfg.Limiter.TTL)
	decrypt := DecryptMiddleware(s.codec, s.nonces)

	api := r.Group("/api", limiter)
	{
		api.POST("/auth/login", s.attempts.Middleware(), decrypt, s.Login)

		authenticated := api.Group("", AuthMiddleware(s.tokens))
		{
			authenticated.POST("/heartbeat", decrypt, s.Heartbeat)
			authenticated.POST("/card/custom-data", decrypt, s.UpdateCustomData)
			authenticated.POST("/card/unbind", decrypt, s.Unbind)
			authenticated.GET("/cloud-var/:key", decrypt, s.GetCloudVar)
			authenticated.GET("/project/info", decrypt, s.GetProjectInfo)
		}
	}
	return r
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Run() error {
	logrus.Infof("Starting dev server on %s (project %s, scheme %s)", s.cfg.Address, s.cfg.Project.UUID, s.codec.Scheme())
	return s.engine.Run(s.cfg.Address)
}
