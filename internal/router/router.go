// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package router dispatches questions to the specialist whose routing
// keywords best match, then decorates the specialist's answer record
// with routing metadata. Routing is a coarser scoring pass than each
// specialist's internal classifier; the two layers are independent and
// may disagree.
// Implements: prd001-routing (R1-R3); docs/ARCHITECTURE § Routing.
package router

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/interp-assistant/internal/agent"
	"github.com/pdiddy/interp-assistant/internal/classify"
	"github.com/pdiddy/interp-assistant/pkg/types"
)

// Router holds the two specialists and picks one per question.
type Router struct {
	feature  *agent.Specialist
	circuits *agent.Specialist
}

// New builds a Router over the two specialists.
func New(feature, circuits *agent.Specialist) *Router {
	return &Router{feature: feature, circuits: circuits}
}

// Specialists returns the registered specialists in a fixed order, for
// the CLI's agent listing.
func (r *Router) Specialists() []*agent.Specialist {
	return []*agent.Specialist{r.feature, r.circuits}
}

// Route scores the question against each specialist's routing keyword
// union. Circuits-Analysis wins only on a strictly higher count; ties,
// including zero-zero, resolve to Feature-Extraction.
func (r *Router) Route(question string) *agent.Specialist {
	circuitsScore := classify.CountMatches(question, r.circuits.RoutingKeywords())
	featureScore := classify.CountMatches(question, r.feature.RoutingKeywords())

	if circuitsScore > featureScore {
		return r.circuits
	}
	return r.feature
}

// ProcessQuery routes the question, runs the chosen specialist, and
// wraps the record with routing metadata. Specialist errors propagate
// unmodified; there is no retry at this layer.
func (r *Router) ProcessQuery(ctx context.Context, question string, opts agent.AskOptions) (*types.Response, error) {
	start := time.Now()

	spec := r.Route(question)
	record, err := spec.AnswerQuestion(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	return &types.Response{
		AnswerRecord: *record,
		ID:           uuid.NewString(),
		Agents:       []string{spec.Name},
		SearchCount:  len(record.SearchQueries),
		TimeSeconds:  time.Since(start).Seconds(),
	}, nil
}

// BuildSpecialists wires both specialists from configuration, loading
// keyword overrides when configured. Shared by the CLI and the
// evaluation driver.
func BuildSpecialists(cfg types.AssistantConfig, gen agent.Generator, log io.Writer) (feature, circuits *agent.Specialist, err error) {
	tables := classify.DefaultTables()
	if cfg.KeywordsFile != "" {
		tables, err = classify.LoadTables(cfg.KeywordsFile)
		if err != nil {
			return nil, nil, err
		}
	}

	deps := agent.Deps{Generator: gen, Log: log}
	return agent.NewFeatureExtraction(tables, cfg, deps),
		agent.NewCircuitsAnalysis(tables, cfg, deps),
		nil
}
