package entity

import "time"

type Project struct {
	Id           string
	Name         string
	Title        string
	Summary      string
	Description  string // sanitized HTML
	ImageURL     string
	Technologies []string
	Outcomes     string
	GithubURL    string
	LiveURL      string
	Category     string
	Role         string
	Duration     string
	TeamSize     int
	Challenges   []string
	Solutions    []string
	Achievements []string
	Timestamp    time.Time
}
