package dto

import "time"

// CardInfo is the card as the server reports it after login.
type CardInfo struct {
	ID          uint64     `json:"id"`
	CardKey     string     `json:"card_key"`
	Activated   bool       `json:"activated"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`
	Frozen      bool       `json:"frozen"`
	Duration    int64      `json:"duration"`
	ExpireAt    *time.Time `json:"expire_at,omitempty"`
	CardType    string     `json:"card_type,omitempty"`
	CustomData  string     `json:"custom_data"`
	HWIDList    []string   `json:"hwid_list,omitempty"`
	IPList      []string   `json:"ip_list,omitempty"`
	MaxHWID     int        `json:"max_hwid"`
	MaxIP       int        `json:"max_ip"`
}

// CustomDataRequest for /api/card/custom-data. An empty value clears the field.
type CustomDataRequest struct {
	CustomData string `json:"custom_data"`
}

// UnbindRequest for /api/card/unbind
type UnbindRequest struct {
	ProjectUUID string `json:"project_uuid" validate:"required"`
	CardKey     string `json:"card_key" validate:"required"`
	HWID        string `json:"hwid" validate:"required"`
}
