package rag

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"portfolio-be/internal/pkg/logger"
)

// MaxBlockChars is the hard per-document cut used when no summarizer is set.
const MaxBlockChars = 800

// Summarizer compresses one retrieved document. ok=false means the caller
// should fall back to truncation.
type Summarizer interface {
	Summarize(text string) (summary string, ok bool)
}

// FrequencySummarizer keeps the highest scoring sentences as bullet points.
// Sentence score is the sum of normalized non-stopword frequencies over the
// square root of the sentence length.
type FrequencySummarizer struct {
	maxSentences int
}

var (
	sentencePattern = regexp.MustCompile(`[^.!?\n]+[.!?]?`)
	wordPattern     = regexp.MustCompile(`\p{L}+(?:'\p{L}+)*`)
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {}, "for": {}, "to": {}, "of": {},
	"in": {}, "on": {}, "at": {}, "by": {}, "with": {}, "as": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "it": {}, "this": {}, "that": {}, "these": {}, "those": {}, "from": {}, "into": {},
	"about": {}, "so": {}, "than": {}, "very": {}, "can": {}, "will": {}, "just": {}, "he": {}, "his": {},
}

func NewFrequencySummarizer(maxSentences int) *FrequencySummarizer {
	if maxSentences <= 0 {
		maxSentences = 4
	}
	return &FrequencySummarizer{maxSentences: maxSentences}
}

func words(s string) []string {
	return wordPattern.FindAllString(strings.ToLower(s), -1)
}

func (f *FrequencySummarizer) Summarize(text string) (string, bool) {
	var sentences []string
	for _, s := range sentencePattern.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return "", false
	}
	if len(sentences) <= f.maxSentences {
		return bullets(sentences), true
	}

	freq := map[string]float64{}
	maxF := 0.0
	for _, s := range sentences {
		for _, w := range words(s) {
			if _, stop := stopwords[w]; stop {
				continue
			}
			freq[w]++
			if freq[w] > maxF {
				maxF = freq[w]
			}
		}
	}
	if maxF == 0 {
		return bullets(sentences[:f.maxSentences]), true
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, s := range sentences {
		ws := words(s)
		score := 0.0
		for _, w := range ws {
			score += freq[w] / maxF
		}
		if len(ws) > 0 {
			score /= math.Sqrt(float64(len(ws)))
		}
		ranked[i] = scored{idx: i, score: score}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	keep := make([]int, f.maxSentences)
	for i := range keep {
		keep[i] = ranked[i].idx
	}
	sort.Ints(keep)

	picked := make([]string, len(keep))
	for i, idx := range keep {
		picked[i] = sentences[idx]
	}
	return bullets(picked), true
}

func bullets(lines []string) string {
	return "- " + strings.Join(lines, "\n- ")
}

// Compress summarizes text when s is set, otherwise truncates it.
func Compress(s Summarizer, text string) string {
	if s != nil {
		if out, ok := s.Summarize(text); ok && strings.TrimSpace(out) != "" {
			return logger.Truncate(out, MaxBlockChars)
		}
	}
	return logger.Truncate(text, MaxBlockChars)
}
