package dto

type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	SessionId string `json:"session_id" validate:"max=128"`
}

type ChatResponse struct {
	Reply     string `json:"reply"`
	Source    string `json:"source,omitempty"`
	SessionId string `json:"session_id,omitempty"`
	WaitTime  int    `json:"wait_time,omitempty"`
}
