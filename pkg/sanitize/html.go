// Package sanitize strips unsafe markup from user-supplied content before it is stored.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = newRichPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// HTML keeps a whitelist of formatting tags and attributes.
func HTML(s string) string {
	return strings.TrimSpace(richPolicy.Sanitize(s))
}

// Text removes every tag, leaving plain text.
func Text(s string) string {
	return strings.TrimSpace(plainPolicy.Sanitize(s))
}

// TextList applies Text to every item and drops empties.
func TextList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if v := Text(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}
