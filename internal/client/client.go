package client

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/HYB-0225/nextkey/internal/crypto_utils"
	"github.com/HYB-0225/nextkey/internal/envelope"
	"github.com/go-playground/validator/v10"
)

// Client talks to one project on a NextKey server through the sealed envelope.
type Client struct {
	baseURL     string
	projectUUID string
	codec       *envelope.Codec
	transport   Transport
	session     *Session
	validate    *validator.Validate

	timeout time.Duration
	guard   *envelope.Guard
}

type Option func(*Client)

// WithToken starts the session already authenticated with a previously issued token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.session.setToken(token)
	}
}

// WithTransport replaces the pooled HTTP client.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithGuard replaces the response freshness policy.
func WithGuard(g *envelope.Guard) Option {
	return func(c *Client) {
		c.guard = g
	}
}

// New derives the key for scheme from secret and builds a client. Key
// derivation failures are returned as KindInvalidParameter and no client is built.
func New(serverURL, projectUUID, secret string, scheme crypto_utils.Scheme, opts ...Option) (*Client, error) {
	const op = "client.New"

	u, err := url.Parse(serverURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, newError(KindInvalidParameter, op, fmt.Errorf("invalid server url %q", serverURL))
	}
	if strings.TrimSpace(projectUUID) == "" {
		return nil, newError(KindInvalidParameter, op, fmt.Errorf("project uuid is empty"))
	}

	engine, err := crypto_utils.NewEngineFromSecret(secret, scheme)
	if err != nil {
		return nil, classify(op, err)
	}

	c := &Client{
		baseURL:     strings.TrimRight(serverURL, "/"),
		projectUUID: projectUUID,
		session:     &Session{},
		validate:    validator.New(),
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPClient(c.timeout)
	}
	c.codec = envelope.NewCodec(engine, c.guard)

	return c, nil
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) Scheme() crypto_utils.Scheme {
	return c.codec.Scheme()
}

func (c *Client) ProjectUUID() string {
	return c.projectUUID
}
