// Package assistant answers portfolio questions: it gates, caches and
// remembers conversations around a tiered LLM call.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-be/internal/pkg/logger"
	"portfolio-be/pkg/cache"
	"portfolio-be/pkg/llm"
	"portfolio-be/pkg/metrics"
	"portfolio-be/pkg/rag"
	"portfolio-be/pkg/rag/prompt"
	"portfolio-be/pkg/store"
)

const (
	DefaultTemperature = 0.6
	DefaultTierTimeout = 30 * time.Second

	OfflineMessage   = "The assistant is offline at the moment. Please use the contact form and you will get a reply soon."
	DifficultMessage = "I'm having a little temporary difficulty answering right now. Please try again in a moment."
)

const (
	SourceCache     = "cache"
	SourceOffline   = "offline"
	SourceFallback  = "fallback"
	SourceRateLimit = "rate_limit"
)

// Retriever builds the knowledge block for a question.
type Retriever interface {
	BuildContext(ctx context.Context, query string) rag.Result
}

// Generator is the LLM gateway as seen by the assistant.
type Generator interface {
	Call(ctx context.Context, req llm.Request) (string, error)
	Has(provider string) bool
}

// SessionStore is the conversation memory.
type SessionStore interface {
	Get(sessionID string) (*store.Session, bool)
	Append(sessionID string, max int, messages ...llm.Message) *store.Session
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Tier is one model in the fallback chain. Model is "<provider>:<model>".
type Tier struct {
	Name    string
	Model   string
	Timeout time.Duration
}

type Config struct {
	OwnerName     string
	Tiers         []Tier
	ContextBudget int
	Temperature   float64
}

type Reply struct {
	Text        string        `json:"reply"`
	Source      string        `json:"source"`
	RateLimited bool          `json:"-"`
	WaitTime    int           `json:"wait_time,omitempty"`
	Intent      rag.Intent    `json:"intent,omitempty"`
	Sentiment   Sentiment     `json:"sentiment,omitempty"`
	Greeting    bool          `json:"-"`
	Duration    time.Duration `json:"-"`
}

type Assistant struct {
	cfg       Config
	retriever Retriever
	gateway   Generator
	sessions  SessionStore
	cache     *cache.ResponseCache
	limiter   *cache.RateLimiter
	clock     Clock
	logger    logger.ILogger
}

func New(cfg Config, retriever Retriever, gateway Generator, sessions SessionStore, responses *cache.ResponseCache, limiter *cache.RateLimiter, log logger.ILogger) *Assistant {
	if cfg.ContextBudget <= 0 {
		cfg.ContextBudget = rag.DefaultBudget
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	return &Assistant{
		cfg:       cfg,
		retriever: retriever,
		gateway:   gateway,
		sessions:  sessions,
		cache:     responses,
		limiter:   limiter,
		clock:     systemClock{},
		logger:    log,
	}
}

func (a *Assistant) WithClock(c Clock) *Assistant {
	a.clock = c
	return a
}

// liveTiers drops tiers whose provider has no credentials.
func (a *Assistant) liveTiers() []Tier {
	var out []Tier
	for _, t := range a.cfg.Tiers {
		provider, _ := llm.SplitModel(t.Model)
		if a.gateway.Has(provider) {
			out = append(out, t)
		}
	}
	return out
}

// Respond runs one chat request:
// gate, greeting check, cache lookup, record, retrieve, prompt, tiers,
// memory update and cache store, in that order.
func (a *Assistant) Respond(ctx context.Context, sessionID, message string) Reply {
	start := time.Now()
	reply := a.respond(ctx, sessionID, message)
	reply.Duration = time.Since(start)
	metrics.ChatLatency.Observe(reply.Duration.Seconds())
	return reply
}

func (a *Assistant) respond(ctx context.Context, sessionID, message string) Reply {
	if !a.limiter.CheckLimit() {
		wait := a.limiter.WaitTime()
		metrics.ChatRequests.WithLabelValues("rate_limited").Inc()
		return Reply{
			Text:        fmt.Sprintf("You're sending messages a bit too quickly. Please wait %d seconds and try again.", wait),
			Source:      SourceRateLimit,
			RateLimited: true,
			WaitTime:    wait,
		}
	}

	greeting := IsGreeting(message)
	sentiment := SentimentNeutral
	if !greeting {
		sentiment = DetectSentiment(message)
	}
	if sentiment == SentimentFrustrated {
		a.logger.Info(logger.ModuleChat, "Frustrated visitor detected", map[string]interface{}{"session_id": sessionID})
	}

	var history []llm.Message
	if s, ok := a.sessions.Get(sessionID); ok {
		history = s.History()
	}

	key := cache.Key(message, history)
	if cached, ok := a.cache.Get(key); ok {
		metrics.ChatRequests.WithLabelValues("cached").Inc()
		return Reply{Text: cached, Source: SourceCache, Sentiment: sentiment, Greeting: greeting}
	}

	a.limiter.RecordRequest()

	tiers := a.liveTiers()
	if len(tiers) == 0 {
		a.logger.Error(logger.ModuleChat, "No LLM tier is configured", nil)
		metrics.ChatRequests.WithLabelValues("offline").Inc()
		return Reply{Text: OfflineMessage, Source: SourceOffline, Sentiment: sentiment, Greeting: greeting}
	}

	var knowledge string
	var intent rag.Intent
	if !greeting {
		res := a.retriever.BuildContext(ctx, message)
		intent = res.Intent
		knowledge = res.Context
	}

	text, tier, ok := a.callTiers(ctx, tiers, knowledge, history, message)
	if !ok {
		metrics.ChatRequests.WithLabelValues("failed").Inc()
		return Reply{Text: DifficultMessage, Source: SourceFallback, Intent: intent, Sentiment: sentiment, Greeting: greeting}
	}

	a.sessions.Append(sessionID, store.MaxSessionMessages,
		llm.Message{Role: llm.RoleUser, Content: message},
		llm.Message{Role: llm.RoleAssistant, Content: text},
	)
	a.cache.Set(key, text)

	outcome := "answered"
	if greeting {
		outcome = "greeting"
	}
	metrics.ChatRequests.WithLabelValues(outcome).Inc()
	return Reply{Text: text, Source: tier.Name, Intent: intent, Sentiment: sentiment, Greeting: greeting}
}

func (a *Assistant) buildMessages(knowledge string, budget int, history []llm.Message, message string) []llm.Message {
	return prompt.NewSandwichBuilder(a.cfg.OwnerName, rag.TruncateToBudget(knowledge, budget), history, message, a.clock.Now()).Build()
}

// callTiers tries each tier once in order. The first time a backend rejects
// the prompt as too large, the knowledge block is cut to half the budget and
// that same tier is retried once; later tiers keep the smaller prompt.
func (a *Assistant) callTiers(ctx context.Context, tiers []Tier, knowledge string, history []llm.Message, message string) (string, Tier, bool) {
	budget := a.cfg.ContextBudget
	messages := a.buildMessages(knowledge, budget, history, message)
	maxTokens := MaxTokensFor(message)
	shrunk := false

	for i := 0; i < len(tiers); i++ {
		tier := tiers[i]
		timeout := tier.Timeout
		if timeout <= 0 {
			timeout = DefaultTierTimeout
		}

		text, err := a.gateway.Call(ctx, llm.Request{
			Model:       tier.Model,
			Messages:    messages,
			MaxTokens:   maxTokens,
			Temperature: a.cfg.Temperature,
			Timeout:     timeout,
		})
		if err == nil {
			metrics.ChatTierAttempts.WithLabelValues(tier.Name, "ok").Inc()
			return text, tier, true
		}

		metrics.ChatTierAttempts.WithLabelValues(tier.Name, "error").Inc()
		a.logger.Warn(logger.ModuleChat, "Tier failed, falling through", map[string]interface{}{
			"tier":  tier.Name,
			"model": tier.Model,
			"error": err.Error(),
		})

		if errors.Is(err, llm.ErrPromptTooLarge) && !shrunk {
			shrunk = true
			budget /= 2
			messages = a.buildMessages(knowledge, budget, history, message)
			if ctx.Err() == nil {
				i--
				continue
			}
		}
		if ctx.Err() != nil {
			break
		}
	}
	return "", Tier{}, false
}
