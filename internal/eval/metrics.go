// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package eval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/interp-assistant/internal/agent"
	"github.com/pdiddy/interp-assistant/pkg/types"
)

// defaultThreshold is the pass mark shared by all judge metrics.
const defaultThreshold = 0.7

// ScoreInput is everything a scorer may consult for one case.
type ScoreInput struct {
	Query            string
	Answer           string
	ExpectedOutput   string
	RetrievalContext []string
}

// Scorer judges one aspect of an answer. Applicable lets a scorer
// decline inputs it cannot judge (no reference answer, no retrieval
// context) rather than producing a meaningless zero.
type Scorer interface {
	Name() string
	Applicable(in ScoreInput) bool
	Score(ctx context.Context, in ScoreInput) (types.MetricScore, error)
}

// Metric names accepted by NewScorers.
const (
	MetricAnswerRelevancy   = "answer_relevancy"
	MetricFaithfulness      = "faithfulness"
	MetricCorrectness       = "correctness"
	MetricTechnicalAccuracy = "technical_accuracy"
)

// AllMetrics lists every known metric in evaluation order.
var AllMetrics = []string{
	MetricAnswerRelevancy,
	MetricFaithfulness,
	MetricCorrectness,
	MetricTechnicalAccuracy,
}

// NewScorers builds judge scorers for the named metrics, all sharing
// one generator. Empty names selects all metrics.
func NewScorers(gen agent.Generator, names []string) ([]Scorer, error) {
	if len(names) == 0 {
		names = AllMetrics
	}

	var scorers []Scorer
	for _, name := range names {
		spec, ok := judgeSpecs[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
		scorers = append(scorers, &judgeScorer{gen: gen, spec: spec})
	}
	return scorers, nil
}

// judgeSpec declares one LLM-judge metric: its criteria prompt and
// which inputs it requires.
type judgeSpec struct {
	name            string
	tmpl            *template.Template
	needsExpected   bool
	needsRetrievals bool
}

var judgeSpecs = map[string]judgeSpec{
	MetricAnswerRelevancy: {
		name: MetricAnswerRelevancy,
		tmpl: judgeTmpl("answer_relevancy", `Judge how relevant the answer is to the question. A relevant answer addresses what was asked without drifting to adjacent topics.

Question: {{.Query}}

Answer: {{.Answer}}
`),
	},
	MetricFaithfulness: {
		name:            MetricFaithfulness,
		needsRetrievals: true,
		tmpl: judgeTmpl("faithfulness", `Judge whether the answer is grounded in the retrieved sources. Claims that contradict the sources or invent facts the sources do not support lower the score.

Question: {{.Query}}

Answer: {{.Answer}}

Retrieved sources:
{{range .RetrievalContext}}- {{.}}
{{end}}`),
	},
	MetricCorrectness: {
		name:          MetricCorrectness,
		needsExpected: true,
		tmpl: judgeTmpl("correctness", `Determine whether the actual answer is factually correct based on the reference answer.

Question: {{.Query}}

Actual answer: {{.Answer}}

Reference answer: {{.ExpectedOutput}}
`),
	},
	MetricTechnicalAccuracy: {
		name: MetricTechnicalAccuracy,
		tmpl: judgeTmpl("technical_accuracy", `Evaluate whether the answer demonstrates accurate understanding of mechanistic interpretability concepts, correctly uses technical terminology, and provides precise explanations.

Question: {{.Query}}

Answer: {{.Answer}}
`),
	},
}

// judgeInstructions is appended to every criteria prompt so the judge
// responds with machine-readable JSON.
const judgeInstructions = `
Respond with a single JSON object and nothing else:
{"score": <float between 0.0 and 1.0>, "reason": "<one-sentence justification>"}
`

func judgeTmpl(name, criteria string) *template.Template {
	return template.Must(template.New(name).Parse(criteria + judgeInstructions))
}

// judgeScorer scores by asking the generator to grade the answer and
// return a JSON verdict.
type judgeScorer struct {
	gen  agent.Generator
	spec judgeSpec
}

func (s *judgeScorer) Name() string { return s.spec.name }

func (s *judgeScorer) Applicable(in ScoreInput) bool {
	if s.spec.needsExpected && in.ExpectedOutput == "" {
		return false
	}
	if s.spec.needsRetrievals && len(in.RetrievalContext) == 0 {
		return false
	}
	return true
}

// judgeVerdict is the JSON object the judge must return.
type judgeVerdict struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

func (s *judgeScorer) Score(ctx context.Context, in ScoreInput) (types.MetricScore, error) {
	var buf bytes.Buffer
	if err := s.spec.tmpl.Execute(&buf, in); err != nil {
		return types.MetricScore{}, fmt.Errorf("rendering %s prompt: %w", s.spec.name, err)
	}

	response, err := s.gen.Generate(ctx, "", buf.String())
	if err != nil {
		return types.MetricScore{}, fmt.Errorf("judging %s: %w", s.spec.name, err)
	}

	verdict, err := parseVerdict(response)
	if err != nil {
		return types.MetricScore{}, fmt.Errorf("parsing %s verdict: %w", s.spec.name, err)
	}
	if verdict.Score < 0 || verdict.Score > 1 {
		return types.MetricScore{}, fmt.Errorf("%s verdict score %f out of range [0,1]", s.spec.name, verdict.Score)
	}

	return types.MetricScore{
		Name:      s.spec.name,
		Score:     verdict.Score,
		Threshold: defaultThreshold,
		Passed:    verdict.Score >= defaultThreshold,
		Reason:    verdict.Reason,
	}, nil
}

// parseVerdict extracts the verdict JSON, tolerating judges that wrap
// it in surrounding prose or code fences.
func parseVerdict(response string) (judgeVerdict, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return judgeVerdict{}, fmt.Errorf("no JSON object in %q", response)
	}

	var v judgeVerdict
	if err := json.Unmarshal([]byte(response[start:end+1]), &v); err != nil {
		return judgeVerdict{}, err
	}
	return v, nil
}
