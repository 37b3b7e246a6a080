// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Keyword tables are data, not code: the built-in defaults below can be
// replaced wholesale per group from a YAML file without touching any
// control flow.

// CircuitsKeywords holds the Circuits-Analysis specialist's keyword
// groups, one per classifier rule, plus the routing union.
type CircuitsKeywords struct {
	Technique     []string `yaml:"technique"`
	AttentionHead []string `yaml:"attention_head"`
	Circuit       []string `yaml:"circuit"`

	// Routing is the combined set the router scores questions against.
	// It is deliberately independent of the classifier groups above; the
	// two layers may disagree and that is by contract.
	Routing []string `yaml:"routing"`
}

// FeatureKeywords holds the Feature-Extraction specialist's keyword
// groups plus the routing union.
type FeatureKeywords struct {
	// ToolCues and ToolNames together form the conjunctive tool_usage
	// rule: a how-to cue and a named tool must both appear.
	ToolCues  []string `yaml:"tool_cues"`
	ToolNames []string `yaml:"tool_names"`
	Concept   []string `yaml:"concept"`

	Routing []string `yaml:"routing"`
}

// Tables groups both specialists' keyword tables.
type Tables struct {
	Circuits CircuitsKeywords `yaml:"circuits"`
	Feature  FeatureKeywords  `yaml:"feature"`
}

// DefaultTables returns the built-in keyword tables.
func DefaultTables() Tables {
	return Tables{
		Circuits: CircuitsKeywords{
			Technique: []string{
				"activation patching", "causal tracing", "ablation", "intervention",
				"path patching", "logit attribution", "how to analyze",
			},
			AttentionHead: []string{
				"attention head", "attention pattern", "induction head",
				"key-query", "qk circuit", "ov circuit",
			},
			// "how does" is intentionally absent: too generic.
			Circuit: []string{
				"circuit", "mechanism", "implementation", "algorithm",
			},
			Routing: []string{
				"circuit", "attention head", "induction head", "mechanism",
				"activation patching", "causal tracing", "ablation",
				"information flow", "path patching", "logit attribution",
				"attention pattern", "qk circuit", "ov circuit",
				"indirect object identification", "ioi",
			},
		},
		Feature: FeatureKeywords{
			ToolCues: []string{
				"how do i", "how to", "how can i", "usage", "example", "code",
			},
			ToolNames: []string{
				"transformerlens", "saelens", "transformer_lens", "sae_lens",
			},
			Concept: []string{
				"what is", "explain", "define", "definition", "why", "understanding",
			},
			Routing: []string{
				"monosemanticity", "polysemanticity", "sparse autoencoder", "sae",
				"dictionary learning", "feature visualization", "superposition",
				"transformerlens", "saelens", "feature extraction",
			},
		},
	}
}

// LoadTables reads keyword tables from a YAML file. Groups left empty in
// the file keep their built-in defaults.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading keywords file %s: %w", path, err)
	}

	var loaded Tables
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Tables{}, fmt.Errorf("parsing keywords file %s: %w", path, err)
	}

	merged := DefaultTables()
	mergeGroup(&merged.Circuits.Technique, loaded.Circuits.Technique)
	mergeGroup(&merged.Circuits.AttentionHead, loaded.Circuits.AttentionHead)
	mergeGroup(&merged.Circuits.Circuit, loaded.Circuits.Circuit)
	mergeGroup(&merged.Circuits.Routing, loaded.Circuits.Routing)
	mergeGroup(&merged.Feature.ToolCues, loaded.Feature.ToolCues)
	mergeGroup(&merged.Feature.ToolNames, loaded.Feature.ToolNames)
	mergeGroup(&merged.Feature.Concept, loaded.Feature.Concept)
	mergeGroup(&merged.Feature.Routing, loaded.Feature.Routing)
	return merged, nil
}

func mergeGroup(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}
