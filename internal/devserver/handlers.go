package devserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HYB-0225/nextkey/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type reply struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// respond seals reply into the response envelope bound to the request nonce.
func (s *Server) respond(c *gin.Context, r reply) {
	const op = "devserver.respond"

	resp, err := s.codec.SealResponse(c.GetString(ctxNonce), r)
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		abort(c, http.StatusInternalServerError, "encrypt failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) success(c *gin.Context, data any) {
	s.respond(c, reply{Code: dto.CodeSuccess, Message: "success", Data: data})
}

func (s *Server) fail(c *gin.Context, code int, err error) {
	s.respond(c, reply{Code: code, Message: err.Error()})
}

func bindPayload(c *gin.Context, v any) error {
	raw, _ := c.Get(ctxPayload)
	b, _ := raw.([]byte)
	if len(b) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(b, v)
}

func (s *Server) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := bindPayload(c, &req); err != nil {
		s.fail(c, http.StatusBadRequest, errors.New("invalid parameters"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(c, http.StatusBadRequest, errors.New("invalid parameters"))
		return
	}
	if req.IP == "" {
		req.IP = c.ClientIP()
	}

	card, err := s.store.Login(req)
	if err != nil {
		c.Set(ctxFailedLogin, true)
		s.fail(c, http.StatusUnauthorized, err)
		return
	}

	token, expireAt, err := s.tokens.issue(card.ID, req.ProjectUUID)
	if err != nil {
		logrus.Errorf("devserver.Login: %v", err)
		s.fail(c, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	s.success(c, dto.LoginData{Token: token, ExpireAt: expireAt, Card: &card})
}

func (s *Server) Heartbeat(c *gin.Context) {
	if err := s.store.Heartbeat(c.GetUint64(ctxCardID)); err != nil {
		s.fail(c, http.StatusUnauthorized, err)
		return
	}
	s.success(c, dto.Message{Message: "heartbeat ok"})
}

func (s *Server) GetCloudVar(c *gin.Context) {
	v, err := s.store.CloudVar(c.Param("key"))
	if err != nil {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	s.success(c, v)
}

func (s *Server) UpdateCustomData(c *gin.Context) {
	var req dto.CustomDataRequest
	if err := bindPayload(c, &req); err != nil {
		s.fail(c, http.StatusBadRequest, errors.New("invalid parameters"))
		return
	}
	if err := s.store.UpdateCustomData(c.GetUint64(ctxCardID), req.CustomData); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	s.success(c, dto.Message{Message: "updated"})
}

func (s *Server) GetProjectInfo(c *gin.Context) {
	s.success(c, s.store.ProjectInfo())
}

func (s *Server) Unbind(c *gin.Context) {
	var req dto.UnbindRequest
	if err := bindPayload(c, &req); err != nil {
		s.fail(c, http.StatusBadRequest, errors.New("invalid parameters"))
		return
	}
	if err := s.store.Unbind(req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	s.success(c, dto.Message{Message: "unbound"})
}
