// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eval

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

// featureCases exercise the Feature-Extraction specialist.
var featureCases = []types.TestCase{
	{
		Query: "What is superposition in neural networks?",
		ExpectedOutput: "Superposition is a phenomenon where neural networks represent more features " +
			"than they have dimensions by storing multiple features in the same set of neurons. " +
			"This happens because models can represent n features in m dimensions (where n > m) " +
			"by using almost-orthogonal directions in activation space. It's a key challenge " +
			"for interpretability because it makes neurons polysemantic.",
		Difficulty: "medium",
		Category:   "concept_explanation",
	},
	{
		Query: "How do I train a sparse autoencoder with SAELens?",
		ExpectedOutput: "To train a sparse autoencoder with SAELens: (1) Load your model using TransformerLens, " +
			"(2) Collect activation data from a target layer, (3) Initialize an SAE with SAELens " +
			"specifying the dictionary size and sparsity coefficient, (4) Train using the provided " +
			"trainer with your activation dataset, (5) Evaluate sparsity and reconstruction loss. " +
			"SAELens provides pre-trained SAEs and utilities for training custom ones.",
		Difficulty: "hard",
		Category:   "tool_usage",
	},
	{
		Query: "What is dictionary learning?",
		ExpectedOutput: "Dictionary learning is a technique for finding a set of basis vectors (dictionary) " +
			"that can sparsely represent data. In mechanistic interpretability, it's used to " +
			"decompose neural network activations into interpretable features. Sparse autoencoders " +
			"perform dictionary learning by learning an overcomplete basis where activations can " +
			"be represented as sparse linear combinations of dictionary elements.",
		Difficulty: "medium",
		Category:   "concept_explanation",
	},
	{
		Query: "Explain the difference between linear and nonlinear feature extraction",
		ExpectedOutput: "Linear feature extraction uses linear transformations (like PCA) to find features, " +
			"assuming features combine linearly. Nonlinear methods (like autoencoders with " +
			"nonlinear activations) can capture more complex feature relationships. For neural " +
			"network interpretability, sparse autoencoders with ReLU activations are common " +
			"nonlinear methods that can learn more expressive feature dictionaries than linear " +
			"approaches.",
		Difficulty: "hard",
		Category:   "concept_explanation",
	},
}

// circuitsCases exercise the Circuits-Analysis specialist.
var circuitsCases = []types.TestCase{
	{
		Query: "What is the IOI circuit?",
		ExpectedOutput: "The Indirect Object Identification (IOI) circuit is a specific computational circuit " +
			"discovered in GPT-2 Small that performs the task of identifying indirect objects in " +
			"sentences. It involves specific attention heads working together: name mover heads " +
			"that move information from previous mentions of names, duplicate token heads that " +
			"detect repeated tokens, and induction heads. This circuit demonstrates how " +
			"interpretable algorithms can emerge in language models.",
		Difficulty: "hard",
		Category:   "circuit_analysis",
	},
	{
		Query: "How does causal tracing differ from activation patching?",
		ExpectedOutput: "Causal tracing and activation patching are related but distinct. Causal tracing is " +
			"a systematic method that patches activations from a clean run into a corrupted run " +
			"to trace where information is processed. Activation patching is the broader technique " +
			"of replacing activations. Causal tracing specifically uses it to track information " +
			"flow by seeing which patches restore correct behavior, helping identify which " +
			"components are causally relevant.",
		Difficulty: "hard",
		Category:   "technique",
	},
	{
		Query: "What are QK and OV circuits?",
		ExpectedOutput: "QK (Query-Key) and OV (Output-Value) circuits are the two main computational paths " +
			"in transformer attention heads. The QK circuit determines the attention pattern by " +
			"computing dot products between queries and keys. The OV circuit determines what " +
			"information is moved by transforming values and combining them according to attention " +
			"weights. Analyzing these circuits separately helps understand what heads attend to " +
			"(QK) versus what they write to the residual stream (OV).",
		Difficulty: "medium",
		Category:   "attention_head",
	},
	{
		Query: "Explain the path patching technique",
		ExpectedOutput: "Path patching is a refinement of activation patching that patches activations only " +
			"along specific computational paths through the network. Instead of patching all " +
			"activations at a layer, you patch only the subset that flows through a particular " +
			"path (e.g., from one attention head through specific MLPs to an output). This gives " +
			"more precise causal understanding by isolating individual paths and their " +
			"contributions to model behavior.",
		Difficulty: "hard",
		Category:   "technique",
	},
	{
		Query: "What is an attention head and how does it work?",
		ExpectedOutput: "An attention head is a component in transformers that moves information between " +
			"positions in a sequence. Each head computes attention patterns (which positions to " +
			"attend to) using queries and keys, then moves information using values weighted by " +
			"these attention scores. Different heads in a model specialize in different patterns " +
			"like copying, induction, or positional attention. Multiple heads in a layer work " +
			"in parallel and their outputs are combined.",
		Difficulty: "medium",
		Category:   "attention_head",
	},
}

// generalCases have no single right specialist.
var generalCases = []types.TestCase{
	{
		Query: "How can I get started with mechanistic interpretability research?",
		ExpectedOutput: "To get started with mechanistic interpretability: (1) Learn the fundamentals of " +
			"transformers and attention mechanisms, (2) Study key papers like 'In-context Learning " +
			"and Induction Heads' and 'Towards Monosemanticity', (3) Practice with TransformerLens " +
			"library to analyze small models, (4) Experiment with techniques like activation " +
			"patching and attention pattern analysis, (5) Join the community through Alignment " +
			"Forum, LessWrong, or research discords. Start with small models like GPT-2 Small.",
		Difficulty: "easy",
		Category:   "general",
	},
	{
		Query: "Compare sparse autoencoders and activation patching",
		ExpectedOutput: "Sparse autoencoders and activation patching are complementary techniques. SAEs are " +
			"used to decompose activations into interpretable features (feature extraction). " +
			"Activation patching is used to determine which components causally matter for " +
			"behaviors (causal analysis). You might use SAEs to find what features exist, then " +
			"use activation patching to determine which features are causally important. Together " +
			"they help both identify features and understand their role in model computation.",
		Difficulty: "hard",
		Category:   "general",
	},
}

// edgeCases are deliberately awkward inputs: a bare abbreviation, a
// question with no fixed reference answer, and a borderline topic.
var edgeCases = []types.TestCase{
	{
		Query: "sae",
		ExpectedOutput: "SAE stands for Sparse Autoencoder. SAEs are neural networks used in mechanistic " +
			"interpretability to decompose model activations into sparse, interpretable features.",
		Difficulty: "easy",
		Category:   "abbreviation",
	},
	{
		Query:      "What's the latest research on circuits in large language models?",
		Difficulty: "hard",
		Category:   "current_research",
	},
	{
		Query: "How does gradient descent relate to mechanistic interpretability?",
		ExpectedOutput: "Gradient descent is the optimization algorithm that trains neural networks, but " +
			"mechanistic interpretability focuses on understanding what the trained model has " +
			"learned. While gradient descent creates the circuits and features we study, " +
			"interpretability research typically analyzes the final trained model. However, " +
			"understanding how circuits form during training (developmental interpretability) " +
			"is an emerging area that does study gradient descent's role.",
		Difficulty: "hard",
		Category:   "general",
	},
}

// BuiltinSuite returns the full built-in test suite.
func BuiltinSuite() []types.TestCase {
	var suite []types.TestCase
	suite = append(suite, featureCases...)
	suite = append(suite, circuitsCases...)
	suite = append(suite, generalCases...)
	suite = append(suite, edgeCases...)
	return suite
}

// QuickSuite returns a three-case subset for rapid iteration.
func QuickSuite() []types.TestCase {
	return []types.TestCase{featureCases[0], circuitsCases[0], generalCases[0]}
}

// FilterByCategory keeps only cases with the given category.
func FilterByCategory(cases []types.TestCase, category string) []types.TestCase {
	var out []types.TestCase
	for _, c := range cases {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// FilterByDifficulty keeps only cases with the given difficulty.
func FilterByDifficulty(cases []types.TestCase, difficulty string) []types.TestCase {
	var out []types.TestCase
	for _, c := range cases {
		if c.Difficulty == difficulty {
			out = append(out, c)
		}
	}
	return out
}

// suiteFile is the YAML shape of an external test suite.
type suiteFile struct {
	Cases []types.TestCase `yaml:"cases"`
}

// LoadSuite reads a test suite from a YAML file. Every case must have a
// non-empty query.
func LoadSuite(path string) ([]types.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite %s: %w", path, err)
	}

	var f suiteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing suite %s: %w", path, err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("suite %s contains no cases", path)
	}
	for i, c := range f.Cases {
		if c.Query == "" {
			return nil, fmt.Errorf("suite %s: case %d has an empty query", path, i)
		}
	}
	return f.Cases, nil
}
