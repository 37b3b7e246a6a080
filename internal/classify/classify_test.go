// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

func circuits() *Classifier {
	return NewCircuitsClassifier(DefaultTables().Circuits)
}

func feature() *Classifier {
	return NewFeatureClassifier(DefaultTables().Feature)
}

func TestCircuitsClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     types.TopicLabel
	}{
		{"technique", "How does activation patching work?", types.TopicTechnique},
		{"technique beats attention head", "How does activation patching work on attention heads?", types.TopicTechnique},
		{"attention head", "What are induction heads?", types.TopicAttentionHead},
		{"circuit", "What mechanism implements addition?", types.TopicCircuitAnalysis},
		{"general", "Tell me about recent research", types.TopicGeneral},
		{"case insensitive", "Explain ABLATION studies", types.TopicTechnique},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := circuits().Classify(tt.question); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestFeatureClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     types.TopicLabel
	}{
		{"tool usage needs both cue and tool", "How do I use TransformerLens?", types.TopicToolUsage},
		{"cue without tool is not tool usage", "How do I get started?", types.TopicGeneral},
		{"tool without cue is not tool usage", "TransformerLens release notes", types.TopicGeneral},
		{"concept", "What is superposition?", types.TopicConceptExplanation},
		{"general", "Latest interpretability news", types.TopicGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := feature().Classify(tt.question); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	q := "How does activation patching work on attention heads?"
	first := circuits().Classify(q)
	for i := 0; i < 10; i++ {
		if got := circuits().Classify(q); got != first {
			t.Fatalf("Classify(%q) changed across calls: %q then %q", q, first, got)
		}
	}
}

func TestCountMatches(t *testing.T) {
	kws := []string{"circuit", "attention head", "ablation"}

	tests := []struct {
		question string
		want     int
	}{
		{"nothing relevant", 0},
		{"a circuit question", 1},
		{"circuit and attention head and ablation", 3},
		{"CIRCUIT uppercased", 1},
		{"circuit circuit circuit", 1}, // each keyword counts once
	}
	for _, tt := range tests {
		if got := CountMatches(tt.question, kws); got != tt.want {
			t.Errorf("CountMatches(%q) = %d, want %d", tt.question, got, tt.want)
		}
	}
}

func TestLoadTablesOverridesNonEmptyGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	content := "circuits:\n  technique:\n    - steering\nfeature:\n  routing:\n    - probes\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables() error = %v", err)
	}

	if len(tables.Circuits.Technique) != 1 || tables.Circuits.Technique[0] != "steering" {
		t.Errorf("Technique = %v, want override", tables.Circuits.Technique)
	}
	if len(tables.Feature.Routing) != 1 || tables.Feature.Routing[0] != "probes" {
		t.Errorf("Feature.Routing = %v, want override", tables.Feature.Routing)
	}

	// Untouched groups keep their defaults.
	defaults := DefaultTables()
	if len(tables.Circuits.AttentionHead) != len(defaults.Circuits.AttentionHead) {
		t.Errorf("AttentionHead = %v, want defaults", tables.Circuits.AttentionHead)
	}
}

func TestLoadTablesMissingFile(t *testing.T) {
	if _, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadTables() error = nil, want error")
	}
}
