// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify maps free-text questions to topic labels using
// ordered, priority-ranked keyword rules. Each specialist owns one rule
// list; rules are evaluated in order and the first match wins, so more
// specific categories sit before broader ones. A question matching no
// rule is "general" — classification never fails.
// Implements: prd001-routing (R2); docs/ARCHITECTURE § Classification.
package classify

import (
	"strings"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

// Rule pairs a predicate with the label it assigns. Predicates receive
// the already-lowercased question.
type Rule struct {
	Label types.TopicLabel
	Match func(question string) bool
}

// Classifier evaluates rules in order, first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier from an ordered rule list.
func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the label for the question. Matching is
// case-insensitive substring matching; lowercasing is the only
// normalization applied.
func (c *Classifier) Classify(question string) types.TopicLabel {
	q := strings.ToLower(question)
	for _, r := range c.rules {
		if r.Match(q) {
			return r.Label
		}
	}
	return types.TopicGeneral
}

// ContainsAny reports whether any keyword occurs as a substring of q.
func ContainsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// CountMatches counts how many of the keywords occur as substrings of the
// lowercased question. Each keyword contributes at most one to the count.
// The router uses this as its coarse specialist-selection score.
func CountMatches(question string, keywords []string) int {
	q := strings.ToLower(question)
	n := 0
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			n++
		}
	}
	return n
}

// NewCircuitsClassifier builds the Circuits-Analysis rule list. Order is
// load-bearing: technique keywords are the most specific and are checked
// first, then attention-head, then the broader circuit vocabulary.
func NewCircuitsClassifier(kw CircuitsKeywords) *Classifier {
	return NewClassifier([]Rule{
		{Label: types.TopicTechnique, Match: func(q string) bool {
			return ContainsAny(q, kw.Technique)
		}},
		{Label: types.TopicAttentionHead, Match: func(q string) bool {
			return ContainsAny(q, kw.AttentionHead)
		}},
		{Label: types.TopicCircuitAnalysis, Match: func(q string) bool {
			return ContainsAny(q, kw.Circuit)
		}},
	})
}

// NewFeatureClassifier builds the Feature-Extraction rule list. The
// tool_usage rule is conjunctive: the question must contain both a
// how-to cue and a named tool.
func NewFeatureClassifier(kw FeatureKeywords) *Classifier {
	return NewClassifier([]Rule{
		{Label: types.TopicToolUsage, Match: func(q string) bool {
			return ContainsAny(q, kw.ToolCues) && ContainsAny(q, kw.ToolNames)
		}},
		{Label: types.TopicConceptExplanation, Match: func(q string) bool {
			return ContainsAny(q, kw.Concept)
		}},
	})
}
