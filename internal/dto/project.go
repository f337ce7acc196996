package dto

type ProjectInfo struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	UpdateURL string `json:"update_url"`
}
