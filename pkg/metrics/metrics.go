// Package metrics holds the Prometheus collectors shared by the chat,
// search and blogger pipelines. They are registered on the default
// registry and exposed at /metrics by the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_chat_requests_total",
		Help: "Chat requests by outcome (answered, cached, greeting, rate_limited, failed, offline)",
	}, []string{"outcome"})

	ChatTierAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_chat_tier_attempts_total",
		Help: "LLM tier attempts by tier and result",
	}, []string{"tier", "result"})

	ChatLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "portfolio_chat_request_duration_seconds",
		Help:    "End to end chat latency in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_search_requests_total",
		Help: "Web search attempts by provider and result",
	}, []string{"provider", "result"})

	BloggerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_blogger_runs_total",
		Help: "Auto-blogger job runs by job and outcome",
	}, []string{"job", "outcome"})

	CriticScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "portfolio_blogger_critic_score",
		Help:    "Critic scores of generated drafts",
		Buckets: []float64{50, 70, 80, 85, 90, 92, 95, 100},
	})

	SyncedEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "portfolio_sync_entries",
		Help: "Entries written by the last sync run per collection",
	}, []string{"collection"})
)
