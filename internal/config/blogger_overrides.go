package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// bloggerOverrides is the optional YAML file that lets the owner tune the
// auto-blogger without touching environment variables.
//
//	categories: [DevOps, Cybersecurity]
//	writer_models: ["openrouter:model-a", "groq:model-b"]
//	template_path: templates/blog.md
//	feedback_path: templates/feedback.md
//	retention_days: 60
type bloggerOverrides struct {
	Categories    []string `yaml:"categories"`
	WriterModels  []string `yaml:"writer_models"`
	TemplatePath  string   `yaml:"template_path"`
	FeedbackPath  string   `yaml:"feedback_path"`
	RetentionDays int      `yaml:"retention_days"`
	SiteDomain    string   `yaml:"site_domain"`
}

// ApplyBloggerOverrides merges non-empty YAML values into cfg.
func ApplyBloggerOverrides(cfg *BloggerConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read overrides: %w", err)
	}

	var o bloggerOverrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parse overrides: %w", err)
	}

	if len(o.Categories) > 0 {
		cfg.Categories = o.Categories
	}
	if len(o.WriterModels) > 0 {
		cfg.WriterModels = o.WriterModels
	}
	if o.TemplatePath != "" {
		cfg.TemplatePath = o.TemplatePath
	}
	if o.FeedbackPath != "" {
		cfg.FeedbackPath = o.FeedbackPath
	}
	if o.RetentionDays > 0 {
		cfg.RetentionDays = o.RetentionDays
	}
	if o.SiteDomain != "" {
		cfg.SiteDomain = o.SiteDomain
	}
	return nil
}
