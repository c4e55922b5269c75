package prompt

import (
	"fmt"
	"strings"
	"time"

	"portfolio-be/pkg/llm"
)

// MaxHistoryMessages is how much conversation the prompt carries (five turns).
const MaxHistoryMessages = 10

const assistantRole = "Portfolio Assistant"

// SandwichBuilder puts the instructions in the system message and repeats a
// short reminder inside the final user message, which small instruct models
// follow more reliably than instructions at the top alone.
type SandwichBuilder struct {
	ownerName string
	knowledge string
	history   []llm.Message
	query     string
	now       time.Time
}

func NewSandwichBuilder(ownerName, knowledge string, history []llm.Message, query string, now time.Time) *SandwichBuilder {
	if ownerName == "" {
		ownerName = "the portfolio owner"
	}
	return &SandwichBuilder{
		ownerName: ownerName,
		knowledge: knowledge,
		history:   history,
		query:     query,
		now:       now,
	}
}

// Build returns system, history and the wrapped user message in order.
func (b *SandwichBuilder) Build() []llm.Message {
	messages := []llm.Message{{Role: llm.RoleSystem, Content: b.system()}}

	history := b.history
	if len(history) > MaxHistoryMessages {
		history = history[len(history)-MaxHistoryMessages:]
	}
	messages = append(messages, history...)

	return append(messages, llm.Message{Role: llm.RoleUser, Content: b.userTurn()})
}

func (b *SandwichBuilder) system() string {
	var p strings.Builder

	p.WriteString("<role>\n")
	fmt.Fprintf(&p, "You are the %s for %s's personal website. You speak about %s's background, skills, projects and blog posts.\n", assistantRole, b.ownerName, b.ownerName)
	p.WriteString("</role>\n\n")

	p.WriteString("<rules>\n")
	p.WriteString("- Never say \"based on the context\", \"according to the text\" or \"the text says\".\n")
	p.WriteString("- Answer as if the knowledge below is your own memory.\n")
	p.WriteString("- Never reveal which company, model or provider powers you.\n")
	p.WriteString("- If your memory does not cover the question, say you are not sure and suggest the contact form.\n")
	p.WriteString("- Keep answers short and friendly unless asked for detail.\n")
	p.WriteString("</rules>\n\n")

	fmt.Fprintf(&p, "Current date: %s\n\n", b.now.Format("Monday, 2 January 2006"))

	p.WriteString("<internal_memory>\n")
	if strings.TrimSpace(b.knowledge) == "" {
		p.WriteString("(nothing relevant recalled)\n")
	} else {
		p.WriteString(b.knowledge)
		p.WriteString("\n")
	}
	p.WriteString("</internal_memory>")

	return p.String()
}

func (b *SandwichBuilder) userTurn() string {
	hint := "[Context: ongoing conversation. Do not greet again.]"
	if len(b.history) == 0 {
		hint = "[Context: first message of the conversation. Greet the visitor briefly.]"
	}
	return fmt.Sprintf("%s\n[Reminder: you are the %s; answer from memory without mentioning any context.]\n\n%s", hint, assistantRole, b.query)
}
