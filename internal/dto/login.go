package dto

import "time"

// LoginRequest for /api/auth/login
type LoginRequest struct {
	ProjectUUID string `json:"project_uuid" validate:"required"`
	CardKey     string `json:"card_key" validate:"required"`
	HWID        string `json:"hwid,omitempty"`
	IP          string `json:"ip,omitempty" validate:"omitempty,ip"`
}

type LoginData struct {
	Token    string    `json:"token"`
	ExpireAt time.Time `json:"expire_at"`
	Card     *CardInfo `json:"card"`
}
