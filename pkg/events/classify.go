package events

import (
	"context"
	"errors"
	"strings"
)

// Error classes attached to failure events.
const (
	ClassTimeout     = "timeout"
	ClassRateLimited = "rate_limited"
	ClassLLM         = "llm_unavailable"
	ClassSearch      = "search_unavailable"
	ClassQuality     = "quality_gate"
	ClassStorage     = "storage"
	ClassConfig      = "configuration"
	ClassUnknown     = "unknown"
)

// ClassifyError maps an error to a short class for notifications.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return ClassTimeout
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return ClassRateLimited
	case strings.Contains(msg, "critic") || strings.Contains(msg, "score"):
		return ClassQuality
	case strings.Contains(msg, "writer") || strings.Contains(msg, "llm") || strings.Contains(msg, "model"):
		return ClassLLM
	case strings.Contains(msg, "search") || strings.Contains(msg, "research"):
		return ClassSearch
	case strings.Contains(msg, "not configured") || strings.Contains(msg, "missing"):
		return ClassConfig
	case strings.Contains(msg, "file") || strings.Contains(msg, "vector") || strings.Contains(msg, "permission"):
		return ClassStorage
	}
	return ClassUnknown
}
