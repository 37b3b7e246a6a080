// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pdiddy/interp-assistant/internal/agent"
	"github.com/pdiddy/interp-assistant/internal/classify"
	"github.com/pdiddy/interp-assistant/pkg/types"
)

// stubGenerator returns a fixed answer, optionally after a delay or an
// error.
type stubGenerator struct {
	answer string
	delay  time.Duration
	err    error
}

func (g *stubGenerator) Generate(context.Context, string, string) (string, error) {
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	return g.answer, g.err
}

func newRouter(t *testing.T, gen agent.Generator) *Router {
	t.Helper()
	cfg := types.AssistantConfig{Gateway: types.GatewayConfig{NumResults: 5}}
	deps := agent.Deps{Generator: gen}
	tables := classify.DefaultTables()
	return New(
		agent.NewFeatureExtraction(tables, cfg, deps),
		agent.NewCircuitsAnalysis(tables, cfg, deps),
	)
}

func TestRoute(t *testing.T) {
	r := newRouter(t, &stubGenerator{answer: "a"})

	tests := []struct {
		name     string
		question string
		want     string
	}{
		{
			name:     "induction heads routes to circuits",
			question: "What are induction heads?",
			want:     "circuits_analysis",
		},
		{
			name:     "transformerlens usage routes to feature",
			question: "How do I use TransformerLens?",
			want:     "feature_extraction",
		},
		{
			name:     "sae question routes to feature",
			question: "How do sparse autoencoders recover features from superposition?",
			want:     "feature_extraction",
		},
		{
			name:     "activation patching routes to circuits",
			question: "How does activation patching isolate a circuit?",
			want:     "circuits_analysis",
		},
		{
			name:     "zero matches defaults to feature",
			question: "How do neural networks work?",
			want:     "feature_extraction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Route(tt.question)
			if got.Name != tt.want {
				t.Errorf("Route(%q) = %s, want %s", tt.question, got.Name, tt.want)
			}
		})
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	r := newRouter(t, &stubGenerator{answer: "a"})
	question := "What are induction heads and how do circuits form?"

	first := r.Route(question).Name
	for i := 0; i < 50; i++ {
		if got := r.Route(question).Name; got != first {
			t.Fatalf("iteration %d: Route returned %s, previously %s", i, got, first)
		}
	}
}

func TestProcessQueryMetadata(t *testing.T) {
	r := newRouter(t, &stubGenerator{answer: "the answer", delay: 5 * time.Millisecond})

	resp, err := r.ProcessQuery(context.Background(), "What are induction heads?", agent.AskOptions{})
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}

	if resp.ID == "" {
		t.Error("response ID must be set")
	}
	if len(resp.Agents) != 1 || resp.Agents[0] != "circuits_analysis" {
		t.Errorf("Agents = %v, want [circuits_analysis]", resp.Agents)
	}
	if resp.SearchCount != len(resp.SearchQueries) {
		t.Errorf("SearchCount = %d, want %d", resp.SearchCount, len(resp.SearchQueries))
	}
	if resp.TimeSeconds < 0.005 {
		t.Errorf("TimeSeconds = %f, want >= injected 5ms delay", resp.TimeSeconds)
	}
	if resp.Answer != "the answer" {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if resp.QuestionType != types.TopicAttentionHead {
		t.Errorf("QuestionType = %s, want attention_head", resp.QuestionType)
	}
}

func TestProcessQueryUniqueIDs(t *testing.T) {
	r := newRouter(t, &stubGenerator{answer: "a"})

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		resp, err := r.ProcessQuery(context.Background(), "What is superposition?", agent.AskOptions{})
		if err != nil {
			t.Fatalf("ProcessQuery: %v", err)
		}
		if seen[resp.ID] {
			t.Fatalf("duplicate response ID %s", resp.ID)
		}
		seen[resp.ID] = true
	}
}

func TestProcessQueryPropagatesErrors(t *testing.T) {
	genErr := errors.New("model unavailable")
	r := newRouter(t, &stubGenerator{err: genErr})

	_, err := r.ProcessQuery(context.Background(), "What is superposition?", agent.AskOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, genErr) {
		t.Errorf("error %v does not wrap the generator error", err)
	}
}

func TestBuildSpecialists(t *testing.T) {
	cfg := types.AssistantConfig{}
	feature, circuits, err := BuildSpecialists(cfg, &stubGenerator{answer: "a"}, nil)
	if err != nil {
		t.Fatalf("BuildSpecialists: %v", err)
	}
	if feature.Name != "feature_extraction" || circuits.Name != "circuits_analysis" {
		t.Errorf("unexpected names %s, %s", feature.Name, circuits.Name)
	}

	cfg.KeywordsFile = "does-not-exist.yaml"
	if _, _, err := BuildSpecialists(cfg, &stubGenerator{answer: "a"}, nil); err == nil {
		t.Error("missing keywords file must error")
	}
}
