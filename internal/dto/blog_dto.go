package dto

type GenerateBlogRequest struct {
	Topic string `json:"topic" validate:"max=200"`
}

type CleanupResponse struct {
	Deleted []string `json:"deleted"`
}
