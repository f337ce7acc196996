package dto

type CloudVarData struct {
	ID        uint64 `json:"id"`
	ProjectID uint64 `json:"project_id"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}
