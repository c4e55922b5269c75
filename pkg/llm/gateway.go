package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"portfolio-be/internal/pkg/logger"
)

const DefaultTimeout = 30 * time.Second

var ErrUnknownProvider = errors.New("llm: provider not configured")

// Request is one gateway call. Model is "<provider>:<model>", for example
// "openrouter:meta-llama/llama-3.2-3b-instruct:free".
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Gateway routes requests to registered providers. It keeps no
// conversation state; fallback ordering lives with the caller.
type Gateway struct {
	mu        sync.RWMutex
	providers map[string]LLMProvider
	logger    logger.ILogger
}

func NewGateway(log logger.ILogger) *Gateway {
	return &Gateway{providers: make(map[string]LLMProvider), logger: log}
}

// Register adds a provider under name. A nil provider is ignored so
// callers can register unconditionally when credentials are missing.
func (g *Gateway) Register(name string, p LLMProvider) {
	if p == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.providers[name] = p
}

func (g *Gateway) Has(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.providers[name]
	return ok
}

// Providers lists registered provider names.
func (g *Gateway) Providers() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.providers))
	for name := range g.providers {
		out = append(out, name)
	}
	return out
}

// SplitModel separates "<provider>:<model>". The model part may itself contain colons.
func SplitModel(id string) (provider, model string) {
	parts := strings.SplitN(id, ":", 2)
	if len(parts) != 2 {
		return "", id
	}
	return parts[0], parts[1]
}

// Call performs exactly one provider request with a timeout.
func (g *Gateway) Call(ctx context.Context, req Request) (string, error) {
	providerName, model := SplitModel(req.Model)

	g.mu.RLock()
	p, ok := g.providers[providerName]
	g.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, providerName)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	opts := []Option{WithMaxTokens(req.MaxTokens), WithTemperature(req.Temperature)}
	if model != "" {
		opts = append(opts, WithModel(model))
	}
	text, err := p.Chat(ctx, req.Messages, opts...)
	if err != nil {
		g.logger.Warn(logger.ModuleLLM, "Provider call failed", map[string]interface{}{
			"model":    req.Model,
			"error":    err.Error(),
			"duration": time.Since(start).String(),
		})
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("llm: empty response from %s", req.Model)
	}
	g.logger.Debug(logger.ModuleLLM, "Provider call succeeded", map[string]interface{}{
		"model":    req.Model,
		"chars":    len(text),
		"duration": time.Since(start).String(),
	})
	return text, nil
}

// Generate is Call with failures collapsed into ok=false.
func (g *Gateway) Generate(ctx context.Context, req Request) (string, bool) {
	text, err := g.Call(ctx, req)
	if err != nil {
		return "", false
	}
	return text, true
}
