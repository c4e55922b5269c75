package assistant

import (
	"strings"

	"portfolio-be/pkg/rag"
)

type Sentiment string

const (
	SentimentNeutral    Sentiment = "neutral"
	SentimentFrustrated Sentiment = "frustrated"
)

var (
	greetingTokens = []string{"hi", "hello", "hey", "hola", "greetings", "namaste", "yo", "hii"}
	greetingPhrase = []string{"good morning", "good evening", "good afternoon"}
	closings       = map[string]struct{}{
		"bye": {}, "goodbye": {}, "thanks": {}, "thank you": {}, "thank you so much": {}, "ok": {}, "okay": {},
		"great": {}, "cool": {}, "awesome": {}, "nice": {}, "see you": {}, "got it": {}, "perfect": {},
	}
	frustrationWords = []string{"stupid", "useless", "hate", "wrong", "hallucinating", "dumb", "terrible", "nonsense", "annoying", "garbage"}
	analyticWords    = map[string]struct{}{
		"analyze": {}, "breakdown": {}, "report": {}, "why": {}, "explain": {},
		"details": {}, "describe": {}, "compare": {}, "difference": {},
	}
)

const (
	BaseMaxTokens     = 150
	AnalyticMaxTokens = 450
)

func normalize(message string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(message)), " .!?,")
}

// IsGreeting reports short greetings and conversation closers.
func IsGreeting(message string) bool {
	m := normalize(message)
	if _, ok := closings[m]; ok {
		return true
	}
	tokens := rag.Tokenize(m)
	if len(tokens) == 0 || len(tokens) >= 5 {
		return false
	}
	for _, g := range greetingTokens {
		if tokens[0] == g {
			return true
		}
	}
	for _, p := range greetingPhrase {
		if strings.HasPrefix(m, p) {
			return true
		}
	}
	return false
}

// DetectSentiment flags messages that contain frustration words. Nothing
// downstream branches on it yet; it is logged and returned to callers.
func DetectSentiment(message string) Sentiment {
	for _, tok := range rag.Tokenize(message) {
		for _, w := range frustrationWords {
			if tok == w {
				return SentimentFrustrated
			}
		}
	}
	return SentimentNeutral
}

// MaxTokensFor raises the answer budget for analytic questions.
func MaxTokensFor(message string) int {
	for _, tok := range rag.Tokenize(message) {
		if _, ok := analyticWords[tok]; ok {
			return AnalyticMaxTokens
		}
	}
	return BaseMaxTokens
}
