// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// TestCase is one evaluation input: a question and, optionally, a
// reference answer to judge against.
type TestCase struct {
	// Query is the question submitted to the router.
	Query string `json:"query" yaml:"query"`

	// ExpectedOutput is the reference answer. Empty disables
	// correctness-style metrics for this case.
	ExpectedOutput string `json:"expected_output,omitempty" yaml:"expected_output,omitempty"`

	// Difficulty is an informational tag: easy, medium, or hard.
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`

	// Category groups cases for aggregation (e.g. "concept_explanation",
	// "tool_usage", "routing").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// MetricScore is the verdict of one scoring metric for one case.
// This mirrors the external scoring service contract: a score, the
// threshold it was judged against, the pass/fail outcome, and an
// optional explanation.
type MetricScore struct {
	Name      string  `json:"name" yaml:"name"`
	Score     float64 `json:"score" yaml:"score"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Passed    bool    `json:"passed" yaml:"passed"`
	Reason    string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// CaseResult bundles everything recorded for one evaluated case.
type CaseResult struct {
	Case     TestCase `json:"case" yaml:"case"`
	Response Response `json:"response" yaml:"response"`

	// RetrievalContext holds the snippet strings re-parsed from the
	// gateway's formatted search text, in citation order.
	RetrievalContext []string `json:"retrieval_context,omitempty" yaml:"retrieval_context,omitempty"`

	Scores []MetricScore `json:"scores" yaml:"scores"`

	// Err records a case-level failure (query or scoring error). The run
	// continues past errored cases.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// MetricSummary aggregates one metric across a run.
type MetricSummary struct {
	Name     string  `json:"name" yaml:"name"`
	Passed   int     `json:"passed" yaml:"passed"`
	Total    int     `json:"total" yaml:"total"`
	PassRate float64 `json:"pass_rate" yaml:"pass_rate"`
	AvgScore float64 `json:"avg_score" yaml:"avg_score"`
}

// RunSummary is the aggregate outcome of one evaluation run.
type RunSummary struct {
	ID        string    `json:"id" yaml:"id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Cases     int       `json:"cases" yaml:"cases"`
	Errored   int       `json:"errored" yaml:"errored"`

	Metrics []MetricSummary `json:"metrics" yaml:"metrics"`

	// CategoryPassRates maps case category to the fraction of its
	// metric verdicts that passed.
	CategoryPassRates map[string]float64 `json:"category_pass_rates,omitempty" yaml:"category_pass_rates,omitempty"`
}
