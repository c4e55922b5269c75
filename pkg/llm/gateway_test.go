package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"portfolio-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply   string
	err     error
	delay   time.Duration
	calls   int
	lastOpt Options
}

func (s *stubProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	s.calls++
	s.lastOpt = Apply(Options{}, options...)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return s.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, options...)
}

func TestGateway_CallRoutesByPrefix(t *testing.T) {
	gw := NewGateway(logger.NewNopLogger())
	groq := &stubProvider{reply: "  hello  "}
	gw.Register("groq", groq)
	gw.Register("nil", nil)

	text, err := gw.Call(context.Background(), Request{
		Model:       "groq:llama-3.1-8b-instant",
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		MaxTokens:   150,
		Temperature: 0.6,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, groq.calls)
	assert.Equal(t, "llama-3.1-8b-instant", groq.lastOpt.Model)
	assert.Equal(t, 150, groq.lastOpt.MaxTokens)
	assert.InDelta(t, 0.6, groq.lastOpt.Temperature, 1e-9)

	assert.True(t, gw.Has("groq"))
	assert.False(t, gw.Has("nil"))
}

func TestGateway_Failures(t *testing.T) {
	gw := NewGateway(logger.NewNopLogger())
	gw.Register("empty", &stubProvider{reply: "   "})
	gw.Register("broken", &stubProvider{err: errors.New("502")})
	gw.Register("slow", &stubProvider{reply: "late", delay: time.Second})

	_, err := gw.Call(context.Background(), Request{Model: "missing:model"})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, ok := gw.Generate(context.Background(), Request{Model: "empty:m"})
	assert.False(t, ok)

	_, ok = gw.Generate(context.Background(), Request{Model: "broken:m"})
	assert.False(t, ok)

	_, err = gw.Call(context.Background(), Request{Model: "slow:m", Timeout: 20 * time.Millisecond})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
