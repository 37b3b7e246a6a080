// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent implements the specialist pipeline: classify the
// question, gather evidence through the gateway, compose the prompt,
// and generate the answer. Two specialists exist with identical
// structure and distinct keyword tables, templates, and personas.
// Implements: prd003-agents (R1-R5); docs/ARCHITECTURE § Specialists.
package agent

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/interp-assistant/internal/classify"
	"github.com/pdiddy/interp-assistant/internal/compose"
	"github.com/pdiddy/interp-assistant/internal/gateway"
	"github.com/pdiddy/interp-assistant/pkg/types"
)

// SearchClient is the slice of the gateway client a specialist uses.
// Tests substitute a fake to avoid spawning a server process.
type SearchClient interface {
	Search(ctx context.Context, query string, numResults int) (string, error)
	Close() error
}

// GatewayDialer opens a fresh gateway connection. One connection is
// dialed per answered question and closed before the answer returns.
type GatewayDialer func(ctx context.Context) (SearchClient, error)

// AskOptions control a single AnswerQuestion call.
type AskOptions struct {
	// SearchWeb enables evidence gathering. When false the answer is
	// generated from the persona alone and SearchQueries stays empty.
	SearchWeb bool

	// OnSearch, if set, is invoked with each query just before it is
	// issued. Used by the CLI's verbose mode.
	OnSearch func(query string)
}

// Specialist answers questions in one domain of mechanistic
// interpretability. Construct with NewFeatureExtraction or
// NewCircuitsAnalysis; the zero value is not usable.
type Specialist struct {
	// Name is the registry name attached to responses ("feature_extraction",
	// "circuits_analysis").
	Name string

	// DisplayName is the human-readable persona title shown by the CLI.
	DisplayName string

	persona    string
	classifier *classify.Classifier
	templates  *compose.TemplateSet
	routing    []string

	gen        Generator
	dial       GatewayDialer
	numResults int
	maxRetries int
	log        io.Writer

	// pickToolName is set only for specialists with a tool_usage label.
	pickToolName func(question string) string
}

// RoutingKeywords returns the keyword union the router scores this
// specialist against.
func (s *Specialist) RoutingKeywords() []string {
	return s.routing
}

// Deps carries the collaborators shared by both specialist constructors.
type Deps struct {
	Generator Generator

	// Dial opens a gateway connection. Nil means spawn the default
	// gateway server per cfg.Gateway.ServerCommand.
	Dial GatewayDialer

	// Log receives progress lines. Nil discards them.
	Log io.Writer
}

// NewFeatureExtraction builds the Feature-Extraction specialist.
func NewFeatureExtraction(tables classify.Tables, cfg types.AssistantConfig, deps Deps) *Specialist {
	s := newSpecialist(cfg, deps)
	s.Name = "feature_extraction"
	s.DisplayName = "Feature Extraction & Interpretability Specialist"
	s.persona = compose.FeaturePersona
	s.classifier = classify.NewFeatureClassifier(tables.Feature)
	s.templates = compose.NewFeatureTemplates()
	s.routing = tables.Feature.Routing
	s.pickToolName = compose.ToolNameFor
	return s
}

// NewCircuitsAnalysis builds the Circuits-Analysis specialist.
func NewCircuitsAnalysis(tables classify.Tables, cfg types.AssistantConfig, deps Deps) *Specialist {
	s := newSpecialist(cfg, deps)
	s.Name = "circuits_analysis"
	s.DisplayName = "Circuits & Mechanistic Analysis Specialist"
	s.persona = compose.CircuitsPersona
	s.classifier = classify.NewCircuitsClassifier(tables.Circuits)
	s.templates = compose.NewCircuitsTemplates()
	s.routing = tables.Circuits.Routing
	return s
}

func newSpecialist(cfg types.AssistantConfig, deps Deps) *Specialist {
	dial := deps.Dial
	if dial == nil {
		opts := gateway.Options{
			ServerCommand:  cfg.Gateway.ServerCommand,
			ConnectTimeout: cfg.Gateway.ConnectTimeout,
		}
		dial = func(ctx context.Context) (SearchClient, error) {
			return gateway.Dial(ctx, opts)
		}
	}

	log := deps.Log
	if log == nil {
		log = io.Discard
	}

	numResults := cfg.Gateway.NumResults
	if numResults <= 0 {
		numResults = 5
	}

	return &Specialist{
		gen:        deps.Generator,
		dial:       dial,
		numResults: numResults,
		maxRetries: cfg.LLM.MaxRetries,
		log:        log,
	}
}

// Classify exposes the specialist's fine-grained label for a question.
func (s *Specialist) Classify(question string) types.TopicLabel {
	return s.classifier.Classify(question)
}

// AnswerQuestion runs the full pipeline for one question and returns a
// fresh record. Gateway and generation failures abort the call; the
// record is never partially populated on error.
func (s *Specialist) AnswerQuestion(ctx context.Context, question string, opts AskOptions) (*types.AnswerRecord, error) {
	label := s.classifier.Classify(question)
	fmt.Fprintf(s.log, "[%s] question type: %s\n", s.Name, label)

	var (
		queries     []string
		resultsText string
	)

	if opts.SearchWeb {
		var err error
		queries, err = s.generateQueries(ctx, question)
		if err != nil {
			return nil, fmt.Errorf("generating search queries: %w", err)
		}

		resultsText, err = s.searchAll(ctx, queries, opts.OnSearch)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(s.log, "[%s] completed %d searches\n", s.Name, len(queries))
	}

	data := compose.PromptData{
		Question:      question,
		SearchResults: resultsText,
	}
	if label == types.TopicToolUsage && s.pickToolName != nil {
		data.ToolName = s.pickToolName(question)
	}

	prompt, err := s.templates.AnswerPrompt(label, data)
	if err != nil {
		return nil, err
	}

	answer, err := GenerateWithRetry(ctx, s.gen, s.persona, prompt, s.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &types.AnswerRecord{
		Answer:            answer,
		Sources:           []types.EvidenceItem{},
		SearchQueries:     queries,
		QuestionType:      label,
		SearchResultsText: resultsText,
	}, nil
}

// generateQueries asks the LLM for focused search queries. The query
// prompt goes out without a persona system message.
func (s *Specialist) generateQueries(ctx context.Context, question string) ([]string, error) {
	prompt, err := s.templates.SearchQueryPrompt(question)
	if err != nil {
		return nil, err
	}

	response, err := GenerateWithRetry(ctx, s.gen, "", prompt, s.maxRetries)
	if err != nil {
		return nil, err
	}

	queries := compose.ParseQueries(response)
	for i, q := range queries {
		fmt.Fprintf(s.log, "[%s] query %d: %s\n", s.Name, i+1, q)
	}
	return queries, nil
}

// searchAll runs the queries sequentially over one gateway connection
// and joins the per-query result blocks with a blank line.
func (s *Specialist) searchAll(ctx context.Context, queries []string, onSearch func(string)) (string, error) {
	if len(queries) == 0 {
		return "", nil
	}

	client, err := s.dial(ctx)
	if err != nil {
		return "", fmt.Errorf("connecting to evidence gateway: %w", err)
	}
	defer client.Close()

	blocks := make([]string, 0, len(queries))
	for _, q := range queries {
		if onSearch != nil {
			onSearch(q)
		}
		block, err := client.Search(ctx, q, s.numResults)
		if err != nil {
			return "", fmt.Errorf("searching %q: %w", q, err)
		}
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n\n"), nil
}
