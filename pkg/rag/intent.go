// Package rag selects the vector collection for a question and assembles
// the retrieved documents into a bounded knowledge block.
package rag

import (
	"strings"
	"unicode"

	"portfolio-be/pkg/vectorstore"
)

type Intent string

const (
	IntentAWSProjects Intent = "aws_projects"
	IntentProjects    Intent = "projects"
	IntentBlogs       Intent = "blogs"
	IntentProfile     Intent = "profile"
)

// intentRules are checked in order; the first rule with a hit wins.
var intentRules = []struct {
	intent  Intent
	words   []string
	phrases []string
}{
	{intent: IntentAWSProjects, words: []string{"aws", "cloud", "terraform", "infrastructure", "devops", "deploy"}},
	{intent: IntentProjects, words: []string{"project", "projects", "built", "developed", "portfolio", "showcase"}, phrases: []string{"worked on"}},
	{intent: IntentBlogs, words: []string{"blog", "article", "post", "writing", "published", "write-up"}},
}

// Tokenize lowercases q and splits on anything that is not a letter,
// digit or hyphen.
func Tokenize(q string) []string {
	return strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

// ClassifyIntent applies the keyword rules to the query tokens.
func ClassifyIntent(query string) Intent {
	tokens := Tokenize(query)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	joined := " " + strings.Join(tokens, " ") + " "

	for _, rule := range intentRules {
		for _, w := range rule.words {
			if _, ok := set[w]; ok {
				return rule.intent
			}
		}
		for _, p := range rule.phrases {
			if strings.Contains(joined, " "+p+" ") {
				return rule.intent
			}
		}
	}
	return IntentProfile
}

// Route says which collection to query and how.
type Route struct {
	Collection  string
	N           int
	QueryPrefix string
}

func RouteFor(intent Intent) Route {
	switch intent {
	case IntentAWSProjects:
		return Route{Collection: vectorstore.CollectionProjects, N: 2, QueryPrefix: "AWS Cloud Infrastructure "}
	case IntentProjects:
		return Route{Collection: vectorstore.CollectionProjects, N: 3}
	case IntentBlogs:
		return Route{Collection: vectorstore.CollectionBlogs, N: 2}
	default:
		return Route{Collection: vectorstore.CollectionPortfolio, N: 2}
	}
}
