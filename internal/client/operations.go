package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/HYB-0225/nextkey/internal/dto"
)

// Login authenticates with a card key. hwid and ip are optional. On code 0
// the returned token is stored in the session; any other code is returned as
// data and leaves the session untouched.
func (c *Client) Login(ctx context.Context, cardKey, hwid, ip string) (dto.APIResponse[dto.LoginData], error) {
	const op = "client.Login"

	body := dto.LoginRequest{
		ProjectUUID: c.projectUUID,
		CardKey:     cardKey,
		HWID:        hwid,
		IP:          ip,
	}
	if err := c.validate.Struct(body); err != nil {
		return dto.APIResponse[dto.LoginData]{}, newError(KindInvalidParameter, op, err)
	}

	resp, err := do[dto.LoginData](ctx, c, call{
		op:     op,
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   body,
	})
	if err != nil || !resp.OK() {
		return resp, err
	}

	if resp.Data == nil || resp.Data.Token == "" {
		return resp, newError(KindUnknown, op, ErrMissingToken)
	}
	c.session.setToken(resp.Data.Token)
	return resp, nil
}

// Heartbeat keeps the server side token alive.
func (c *Client) Heartbeat(ctx context.Context) (dto.APIResponse[dto.Message], error) {
	return do[dto.Message](ctx, c, call{
		op:     "client.Heartbeat",
		method: http.MethodPost,
		path:   "/api/heartbeat",
		body:   dto.Empty{},
		auth:   true,
	})
}

func (c *Client) GetCloudVar(ctx context.Context, key string) (dto.APIResponse[dto.CloudVarData], error) {
	const op = "client.GetCloudVar"

	if err := c.validate.Var(key, "required"); err != nil {
		return dto.APIResponse[dto.CloudVarData]{}, newError(KindInvalidParameter, op, err)
	}
	return do[dto.CloudVarData](ctx, c, call{
		op:     op,
		method: http.MethodGet,
		path:   "/api/cloud-var/" + url.PathEscape(key),
		body:   dto.Empty{},
		auth:   true,
	})
}

// UpdateCustomData replaces the card's custom data. An empty value clears it.
func (c *Client) UpdateCustomData(ctx context.Context, customData string) (dto.APIResponse[dto.Message], error) {
	return do[dto.Message](ctx, c, call{
		op:     "client.UpdateCustomData",
		method: http.MethodPost,
		path:   "/api/card/custom-data",
		body:   dto.CustomDataRequest{CustomData: customData},
		auth:   true,
	})
}

func (c *Client) GetProjectInfo(ctx context.Context) (dto.APIResponse[dto.ProjectInfo], error) {
	return do[dto.ProjectInfo](ctx, c, call{
		op:     "client.GetProjectInfo",
		method: http.MethodGet,
		path:   "/api/project/info",
		body:   dto.Empty{},
		auth:   true,
	})
}

// UnbindHWID removes a device from the card's bound list.
func (c *Client) UnbindHWID(ctx context.Context, cardKey, hwid string) (dto.APIResponse[dto.Message], error) {
	const op = "client.UnbindHWID"

	body := dto.UnbindRequest{ProjectUUID: c.projectUUID, CardKey: cardKey, HWID: hwid}
	if err := c.validate.Struct(body); err != nil {
		return dto.APIResponse[dto.Message]{}, newError(KindInvalidParameter, op, err)
	}
	return do[dto.Message](ctx, c, call{
		op:     op,
		method: http.MethodPost,
		path:   "/api/card/unbind",
		body:   body,
		auth:   true,
	})
}
