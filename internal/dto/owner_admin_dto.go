package dto

import "time"

type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SyncAcceptedResponse struct {
	Target string `json:"target"`
	JobId  string `json:"job_id"`
}

type SyncMessage struct {
	JobId       string    `json:"job_id"`
	Target      string    `json:"target"`
	RequestedAt time.Time `json:"requested_at"`
}
