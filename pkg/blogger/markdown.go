package blogger

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"portfolio-be/internal/pkg/logger"
)

const maxSummaryChars = 280

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// outline is what the publisher and writer need from a draft's markdown.
type outline struct {
	Title     string
	FirstPara string
}

func parseOutline(content string) outline {
	src := []byte(content)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var out outline
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && out.Title == "" {
				out.Title = nodeText(node, src)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if out.FirstPara == "" {
				out.FirstPara = nodeText(node, src)
			}
			return ast.WalkSkipChildren, nil
		}
		if out.Title != "" && out.FirstPara != "" {
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExtractTitle returns the first H1, or the first non-empty line when the
// draft has no H1.
func ExtractTitle(content string) string {
	if t := parseOutline(content).Title; t != "" {
		return t
	}
	for _, line := range strings.Split(content, "\n") {
		if l := strings.TrimSpace(strings.TrimLeft(line, "# ")); l != "" {
			return logger.Truncate(l, 120)
		}
	}
	return ""
}

// Summarize returns the first paragraph, truncated for listings.
func Summarize(content string) string {
	return logger.Truncate(parseOutline(content).FirstPara, maxSummaryChars)
}

// stripFence removes a ```markdown wrapper some models put around the whole answer.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
