package websearch

import (
	"strconv"
	"strings"
	"time"
)

var fillerWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"please": {}, "can": {}, "could": {}, "you": {}, "me": {}, "tell": {},
	"about": {}, "some": {}, "any": {}, "i": {}, "want": {}, "know": {},
	"find": {}, "show": {}, "give": {}, "what": {}, "really": {}, "just": {},
}

// Optimize strips filler words from queries longer than three tokens and
// appends qualifier hints: "tutorial guide" for how-to queries and the
// current year for trend shaped ones. Queries of three tokens or fewer are
// returned unchanged.
func Optimize(query string) string {
	return OptimizeAt(query, time.Now())
}

// OptimizeAt is Optimize with the year taken from now.
func OptimizeAt(query string, now time.Time) string {
	tokens := strings.Fields(query)
	if len(tokens) <= 3 {
		return query
	}

	lower := strings.ToLower(query)
	howTo := strings.Contains(lower, "how to") || strings.Contains(lower, "how do")
	trend := strings.Contains(lower, "trend") || strings.Contains(lower, "latest")

	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, filler := fillerWords[strings.ToLower(strings.Trim(tok, "?!.,"))]; filler {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		return query
	}

	out := strings.Join(kept, " ")
	outLower := strings.ToLower(out)
	if howTo && !strings.Contains(outLower, "tutorial") && !strings.Contains(outLower, "guide") {
		out += " tutorial guide"
	}
	if year := strconv.Itoa(now.Year()); trend && !strings.Contains(out, year) {
		out += " " + year
	}
	return out
}
