// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose turns a classified question and gathered evidence into
// the exact prompt text sent to the text-generation service. Templates
// are static text keyed by topic label; no conditional logic lives in the
// template layer beyond the key lookup.
// Implements: prd003-agents (R3); docs/ARCHITECTURE § Prompt Composition.
package compose

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

// PromptData carries the variables interpolated into answer templates.
type PromptData struct {
	Question      string
	SearchResults string

	// ToolName is only consumed by the Feature-Extraction tool_usage
	// template.
	ToolName string
}

// TemplateSet is one specialist's prompt table: a search-query template
// plus answer templates keyed by topic label.
type TemplateSet struct {
	query    *template.Template
	answers  map[types.TopicLabel]*template.Template
	fallback *template.Template
}

// AnswerPrompt renders the answer template for the label, falling back to
// the general sources-grounded template for labels without a dedicated
// one.
func (s *TemplateSet) AnswerPrompt(label types.TopicLabel, data PromptData) (string, error) {
	tmpl, ok := s.answers[label]
	if !ok {
		tmpl = s.fallback
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", label, err)
	}
	return buf.String(), nil
}

// SearchQueryPrompt renders the instruction asking the LLM to produce
// focused search queries for the question.
func (s *TemplateSet) SearchQueryPrompt(question string) (string, error) {
	var buf bytes.Buffer
	if err := s.query.Execute(&buf, PromptData{Question: question}); err != nil {
		return "", fmt.Errorf("rendering search query template: %w", err)
	}
	return buf.String(), nil
}

// ParseQueries splits an LLM query-generation response into individual
// search queries: one per line, whitespace trimmed, empty lines dropped.
// Any non-empty line is taken as a literal query; there is no
// deduplication or length checking.
func ParseQueries(response string) []string {
	var queries []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			queries = append(queries, line)
		}
	}
	return queries
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}
