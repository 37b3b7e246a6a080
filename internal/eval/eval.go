// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eval runs the test-case suite through the router and grades
// each answer with LLM-judge metrics.
// Implements: prd005-evaluation (R1-R5); docs/ARCHITECTURE § Evaluation.
package eval

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/interp-assistant/internal/agent"
	"github.com/pdiddy/interp-assistant/internal/gateway"
	"github.com/pdiddy/interp-assistant/internal/router"
	"github.com/pdiddy/interp-assistant/pkg/types"
)

// QueryProcessor is the slice of the router the driver uses. Tests
// substitute a fake to avoid LLM and gateway traffic.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, question string, opts agent.AskOptions) (*types.Response, error)
}

var _ QueryProcessor = (*router.Router)(nil)

// Driver evaluates a suite of test cases.
type Driver struct {
	proc    QueryProcessor
	scorers []Scorer
	store   *Store
	log     io.Writer
}

// NewDriver builds an evaluation driver. store may be nil to skip
// persistence; log may be nil to discard progress lines.
func NewDriver(proc QueryProcessor, scorers []Scorer, store *Store, log io.Writer) *Driver {
	if log == nil {
		log = io.Discard
	}
	return &Driver{proc: proc, scorers: scorers, store: store, log: log}
}

// RunOptions control one evaluation run.
type RunOptions struct {
	// SearchWeb passes through to each answered question.
	SearchWeb bool

	// Limit caps the number of cases run (0 = all).
	Limit int
}

// Run evaluates the cases sequentially and returns the summary plus
// per-case results. Individual case failures are recorded and the run
// continues; only context cancellation aborts it.
func (d *Driver) Run(ctx context.Context, cases []types.TestCase, opts RunOptions) (*types.RunSummary, []types.CaseResult, error) {
	if opts.Limit > 0 && opts.Limit < len(cases) {
		cases = cases[:opts.Limit]
	}

	summary := &types.RunSummary{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Cases:     len(cases),
	}

	results := make([]types.CaseResult, 0, len(cases))
	for i, tc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		fmt.Fprintf(d.log, "[%d/%d] %s\n", i+1, len(cases), tc.Query)

		result := d.evaluateCase(ctx, tc, opts)
		if result.Err != "" {
			summary.Errored++
			fmt.Fprintf(d.log, "  error: %s\n", result.Err)
		} else {
			for _, score := range result.Scores {
				mark := "pass"
				if !score.Passed {
					mark = "FAIL"
				}
				fmt.Fprintf(d.log, "  %s %s: %.3f\n", mark, score.Name, score.Score)
			}
		}
		results = append(results, result)
	}

	aggregate(summary, results)

	if d.store != nil {
		if err := d.store.SaveRun(ctx, summary, results); err != nil {
			return nil, nil, fmt.Errorf("saving run: %w", err)
		}
	}

	return summary, results, nil
}

// evaluateCase answers one case and scores it with every applicable
// metric. A scorer failure becomes a failed score, not a case error.
func (d *Driver) evaluateCase(ctx context.Context, tc types.TestCase, opts RunOptions) types.CaseResult {
	result := types.CaseResult{Case: tc}

	resp, err := d.proc.ProcessQuery(ctx, tc.Query, agent.AskOptions{SearchWeb: opts.SearchWeb})
	if err != nil {
		result.Err = err.Error()
		return result
	}
	result.Response = *resp
	result.RetrievalContext = gateway.ParseRetrievalContext(resp.SearchResultsText)

	in := ScoreInput{
		Query:            tc.Query,
		Answer:           resp.Answer,
		ExpectedOutput:   tc.ExpectedOutput,
		RetrievalContext: result.RetrievalContext,
	}

	for _, scorer := range d.scorers {
		if !scorer.Applicable(in) {
			continue
		}
		score, err := scorer.Score(ctx, in)
		if err != nil {
			score = types.MetricScore{
				Name:      scorer.Name(),
				Threshold: defaultThreshold,
				Reason:    err.Error(),
			}
		}
		result.Scores = append(result.Scores, score)
	}

	return result
}

// aggregate fills the summary's per-metric and per-category rollups.
func aggregate(summary *types.RunSummary, results []types.CaseResult) {
	type tally struct {
		passed int
		total  int
		sum    float64
	}

	metricTallies := map[string]*tally{}
	var metricOrder []string
	categoryTallies := map[string]*tally{}

	for _, r := range results {
		for _, score := range r.Scores {
			mt, ok := metricTallies[score.Name]
			if !ok {
				mt = &tally{}
				metricTallies[score.Name] = mt
				metricOrder = append(metricOrder, score.Name)
			}
			mt.total++
			mt.sum += score.Score
			if score.Passed {
				mt.passed++
			}

			if r.Case.Category != "" {
				ct, ok := categoryTallies[r.Case.Category]
				if !ok {
					ct = &tally{}
					categoryTallies[r.Case.Category] = ct
				}
				ct.total++
				if score.Passed {
					ct.passed++
				}
			}
		}
	}

	for _, name := range metricOrder {
		t := metricTallies[name]
		summary.Metrics = append(summary.Metrics, types.MetricSummary{
			Name:     name,
			Passed:   t.passed,
			Total:    t.total,
			PassRate: float64(t.passed) / float64(t.total),
			AvgScore: t.sum / float64(t.total),
		})
	}

	if len(categoryTallies) > 0 {
		summary.CategoryPassRates = make(map[string]float64, len(categoryTallies))
		for cat, t := range categoryTallies {
			summary.CategoryPassRates[cat] = float64(t.passed) / float64(t.total)
		}
	}
}
