// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the interp-assistant
// pipeline. Implements: prd001-routing (Response), prd003-agents
// (AnswerRecord, TopicLabel); docs/ARCHITECTURE § Data Structures.
package types

// TopicLabel is the fine-grained question category a specialist's own
// classifier assigns. It selects the prompt template used for the answer.
type TopicLabel string

// Feature-Extraction specialist labels.
const (
	TopicToolUsage          TopicLabel = "tool_usage"
	TopicConceptExplanation TopicLabel = "concept_explanation"
)

// Circuits-Analysis specialist labels.
const (
	TopicTechnique       TopicLabel = "technique"
	TopicAttentionHead   TopicLabel = "attention_head"
	TopicCircuitAnalysis TopicLabel = "circuit_analysis"
)

// TopicGeneral is the catch-all label shared by both specialists. A
// question matching no keyword group always classifies as general.
const TopicGeneral TopicLabel = "general"

// EvidenceItem is a single web search result as returned by a search
// backend, before the gateway renders it into citation-block text.
type EvidenceItem struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Snippet string `json:"snippet" yaml:"snippet"`
}

// AnswerRecord is the structured result of answering one question with one
// specialist. Records are created fresh per call and never mutated after
// return.
type AnswerRecord struct {
	// Answer is the generated answer text, verbatim from the LLM.
	Answer string `json:"answer" yaml:"answer"`

	// Sources is always empty in the current design: evidence reaches the
	// LLM as formatted text, not structured items. Kept for forward
	// compatibility with a structured-citation pipeline.
	Sources []EvidenceItem `json:"sources" yaml:"sources"`

	// SearchQueries lists the queries actually issued through the evidence
	// gateway, in issuance order. Empty when search is disabled.
	SearchQueries []string `json:"search_queries" yaml:"search_queries"`

	// QuestionType is the label the specialist's classifier assigned.
	QuestionType TopicLabel `json:"question_type" yaml:"question_type"`

	// SearchResultsText is the concatenated gateway output, one block per
	// query separated by a blank line. Its block count always equals
	// len(SearchQueries).
	SearchResultsText string `json:"search_results_text" yaml:"search_results_text"`
}

// Response is an AnswerRecord decorated with routing metadata by the
// router. This is the contract the evaluation driver consumes.
type Response struct {
	AnswerRecord `yaml:",inline"`

	// ID uniquely identifies this response.
	ID string `json:"id" yaml:"id"`

	// Agents holds the registry name of the specialist that answered.
	// Single-element today; a list for future multi-agent collaboration.
	Agents []string `json:"agents" yaml:"agents"`

	// SearchCount is len(SearchQueries), surfaced for summaries.
	SearchCount int `json:"search_count" yaml:"search_count"`

	// TimeSeconds is the wall-clock time for the whole query, >= 0.
	TimeSeconds float64 `json:"time_seconds" yaml:"time_seconds"`
}
