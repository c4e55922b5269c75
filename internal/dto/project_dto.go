package dto

import "time"

type ProjectResponse struct {
	Id           string    `json:"id"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	Technologies []string  `json:"technologies"`
	Outcomes     string    `json:"outcomes,omitempty"`
	GithubURL    string    `json:"github_url,omitempty"`
	LiveURL      string    `json:"live_url,omitempty"`
	Category     string    `json:"category,omitempty"`
	Role         string    `json:"role,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	TeamSize     int       `json:"team_size,omitempty"`
	Challenges   []string  `json:"challenges,omitempty"`
	Solutions    []string  `json:"solutions,omitempty"`
	Achievements []string  `json:"achievements,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// CreateProjectRequest is bound from multipart form fields. List fields
// accept either repeated values or one comma separated value.
type CreateProjectRequest struct {
	Name         string   `form:"name" json:"name" validate:"required,max=200"`
	Title        string   `form:"title" json:"title" validate:"max=200"`
	Summary      string   `form:"summary" json:"summary" validate:"required,max=1000"`
	Description  string   `form:"description" json:"description" validate:"max=50000"`
	Technologies []string `form:"technologies" json:"technologies"`
	Outcomes     string   `form:"outcomes" json:"outcomes"`
	GithubURL    string   `form:"github_url" json:"github_url" validate:"omitempty,url"`
	LiveURL      string   `form:"live_url" json:"live_url" validate:"omitempty,url"`
	ImageURL     string   `form:"image_url" json:"image_url" validate:"omitempty,url"`
	Category     string   `form:"category" json:"category"`
	Role         string   `form:"role" json:"role"`
	Duration     string   `form:"duration" json:"duration"`
	TeamSize     int      `form:"team_size" json:"team_size" validate:"gte=0"`
	Challenges   []string `form:"challenges" json:"challenges"`
	Solutions    []string `form:"solutions" json:"solutions"`
	Achievements []string `form:"achievements" json:"achievements"`
}

// UpdateProjectRequest only touches fields that are present.
type UpdateProjectRequest struct {
	Name         *string   `json:"name" validate:"omitempty,max=200"`
	Title        *string   `json:"title" validate:"omitempty,max=200"`
	Summary      *string   `json:"summary" validate:"omitempty,max=1000"`
	Description  *string   `json:"description" validate:"omitempty,max=50000"`
	Technologies *[]string `json:"technologies"`
	Outcomes     *string   `json:"outcomes"`
	GithubURL    *string   `json:"github_url" validate:"omitempty,url"`
	LiveURL      *string   `json:"live_url" validate:"omitempty,url"`
	ImageURL     *string   `json:"image_url" validate:"omitempty,url"`
	Category     *string   `json:"category"`
	Role         *string   `json:"role"`
	Duration     *string   `json:"duration"`
	TeamSize     *int      `json:"team_size" validate:"omitempty,gte=0"`
	Challenges   *[]string `json:"challenges"`
	Solutions    *[]string `json:"solutions"`
	Achievements *[]string `json:"achievements"`
}
