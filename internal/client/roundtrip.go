package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/HYB-0225/nextkey/internal/dto"
	"github.com/HYB-0225/nextkey/internal/envelope"
	"github.com/sirupsen/logrus"
)

type call struct {
	op     string
	method string
	path   string
	body   any
	auth   bool
}

// do runs one sealed round trip and hands back the verified business response.
func do[R any](ctx context.Context, c *Client, cl call) (dto.APIResponse[R], error) {
	var out dto.APIResponse[R]

	token, authenticated := c.session.Token()
	if cl.auth && !authenticated {
		return out, newError(KindAuthenticationRequired, cl.op, ErrAuthenticationRequired)
	}

	sealed, pending, err := c.codec.SealRequest(cl.body)
	if err != nil {
		return out, classify(cl.op, err)
	}
	payload, err := json.Marshal(sealed)
	if err != nil {
		return out, newError(KindUnknown, cl.op, err)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, bytes.NewReader(payload))
	if err != nil {
		return out, newError(KindInvalidParameter, cl.op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logrus.Debugf("%s: %s %s scheme=%s", cl.op, cl.method, cl.path, c.codec.Scheme())

	resp, err := c.transport.Do(req)
	if err != nil {
		return out, newError(KindNetwork, cl.op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return out, newError(KindNetwork, cl.op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, newError(KindNetwork, cl.op, statusError(resp.StatusCode, body))
	}

	var sealedResp envelope.Response
	if err := json.Unmarshal(body, &sealedResp); err != nil {
		return out, newError(KindDecrypt, cl.op, fmt.Errorf("%w: %v", envelope.ErrMalformed, err))
	}

	out, err = envelope.Open[dto.APIResponse[R]](c.codec, sealedResp, pending)
	if err != nil {
		if errors.Is(err, envelope.ErrReplayOrTamper) {
			logrus.Warnf("%s: rejected response: %v", cl.op, err)
		}
		return out, classify(cl.op, err)
	}
	return out, nil
}

// HTTPStatusError is a non-2xx answer. Message is taken from a plain JSON error body when present.
type HTTPStatusError struct {
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Message)
}

func statusError(code int, body []byte) error {
	var plain struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &plain)

	msg := plain.Message
	if msg == "" {
		msg = plain.Error
	}
	return &HTTPStatusError{StatusCode: code, Message: msg}
}
