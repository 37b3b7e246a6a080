// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/interp-assistant/internal/classify"
	"github.com/pdiddy/interp-assistant/pkg/types"
)

// fakeGenerator returns canned responses keyed by a substring of the
// user prompt, so one fake can serve both the query-generation call and
// the answer call.
type fakeGenerator struct {
	queryResponse  string
	answerResponse string
	calls          []call
	err            error
}

type call struct {
	system string
	user   string
}

func (g *fakeGenerator) Generate(_ context.Context, system, user string) (string, error) {
	g.calls = append(g.calls, call{system: system, user: user})
	if g.err != nil {
		return "", g.err
	}
	if strings.Contains(user, "search queries") {
		return g.queryResponse, nil
	}
	return g.answerResponse, nil
}

// fakeSearchClient records queries and returns one block per query.
type fakeSearchClient struct {
	blocks   map[string]string
	searched []string
	closed   int
	err      error
}

func (c *fakeSearchClient) Search(_ context.Context, query string, _ int) (string, error) {
	c.searched = append(c.searched, query)
	if c.err != nil {
		return "", c.err
	}
	if block, ok := c.blocks[query]; ok {
		return block, nil
	}
	return "Found 1 search results:\n\n[1] " + query + "\n    URL: https://example.com\n    snippet\n", nil
}

func (c *fakeSearchClient) Close() error {
	c.closed++
	return nil
}

func dialerFor(client *fakeSearchClient, err error) GatewayDialer {
	return func(context.Context) (SearchClient, error) {
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func testConfig() types.AssistantConfig {
	return types.AssistantConfig{
		LLM:     types.LLMConfig{MaxRetries: 0},
		Gateway: types.GatewayConfig{NumResults: 5},
	}
}

func TestAnswerQuestionWithSearch(t *testing.T) {
	gen := &fakeGenerator{
		queryResponse:  "induction heads transformer circuits\nattention pattern analysis",
		answerResponse: "Induction heads copy earlier tokens.",
	}
	client := &fakeSearchClient{}
	spec := NewCircuitsAnalysis(classify.DefaultTables(), testConfig(), Deps{
		Generator: gen,
		Dial:      dialerFor(client, nil),
	})

	var seen []string
	record, err := spec.AnswerQuestion(context.Background(), "What are induction heads?", AskOptions{
		SearchWeb: true,
		OnSearch:  func(q string) { seen = append(seen, q) },
	})
	require.NoError(t, err)

	assert.Equal(t, types.TopicAttentionHead, record.QuestionType)
	assert.Equal(t, "Induction heads copy earlier tokens.", record.Answer)
	assert.Equal(t, []string{"induction heads transformer circuits", "attention pattern analysis"}, record.SearchQueries)
	assert.Equal(t, record.SearchQueries, seen, "OnSearch fires once per query in order")
	assert.Equal(t, record.SearchQueries, client.searched)
	assert.Equal(t, 1, client.closed, "gateway connection closed after searching")
	assert.Empty(t, record.Sources)
	assert.Equal(t, 2, strings.Count(record.SearchResultsText, "Found 1 search results:"))

	// Answer call carries the persona; query call does not.
	require.Len(t, gen.calls, 2)
	assert.Empty(t, gen.calls[0].system)
	assert.Contains(t, gen.calls[1].system, "Circuits & Mechanistic Analysis Specialist")
	assert.Contains(t, gen.calls[1].user, record.SearchResultsText)
}

func TestAnswerQuestionSearchDisabled(t *testing.T) {
	gen := &fakeGenerator{answerResponse: "answer"}
	spec := NewCircuitsAnalysis(classify.DefaultTables(), testConfig(), Deps{
		Generator: gen,
		Dial: func(context.Context) (SearchClient, error) {
			t.Fatal("gateway dialed with search disabled")
			return nil, nil
		},
	})

	record, err := spec.AnswerQuestion(context.Background(), "What are induction heads?", AskOptions{})
	require.NoError(t, err)

	assert.Equal(t, types.TopicAttentionHead, record.QuestionType)
	assert.Empty(t, record.SearchQueries)
	assert.Empty(t, record.SearchResultsText)
	require.Len(t, gen.calls, 1, "only the answer call happens")
}

func TestAnswerQuestionToolUsagePrompt(t *testing.T) {
	gen := &fakeGenerator{answerResponse: "use model.run_with_cache"}
	spec := NewFeatureExtraction(classify.DefaultTables(), testConfig(), Deps{Generator: gen})

	record, err := spec.AnswerQuestion(context.Background(), "How do I use TransformerLens to cache activations?", AskOptions{})
	require.NoError(t, err)

	assert.Equal(t, types.TopicToolUsage, record.QuestionType)
	require.Len(t, gen.calls, 1)
	assert.Contains(t, gen.calls[0].user, "TransformerLens", "tool name interpolated into the prompt")
	assert.Contains(t, gen.calls[0].system, "Feature Extraction & Interpretability Specialist")
}

func TestAnswerQuestionGatewayFailure(t *testing.T) {
	gen := &fakeGenerator{queryResponse: "some query"}
	dialErr := errors.New("spawn failed")
	spec := NewFeatureExtraction(classify.DefaultTables(), testConfig(), Deps{
		Generator: gen,
		Dial:      dialerFor(nil, dialErr),
	})

	_, err := spec.AnswerQuestion(context.Background(), "What is superposition?", AskOptions{SearchWeb: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, dialErr)
}

func TestAnswerQuestionSearchErrorClosesClient(t *testing.T) {
	gen := &fakeGenerator{queryResponse: "q1\nq2"}
	client := &fakeSearchClient{err: errors.New("gateway down")}
	spec := NewFeatureExtraction(classify.DefaultTables(), testConfig(), Deps{
		Generator: gen,
		Dial:      dialerFor(client, nil),
	})

	_, err := spec.AnswerQuestion(context.Background(), "What is superposition?", AskOptions{SearchWeb: true})
	require.Error(t, err)
	assert.Equal(t, 1, client.closed, "connection closed even on search failure")
	assert.Len(t, client.searched, 1, "searching stops at the first failure")
}

func TestAnswerQuestionNoQueriesSkipsGateway(t *testing.T) {
	gen := &fakeGenerator{queryResponse: "   \n\n", answerResponse: "answer"}
	spec := NewFeatureExtraction(classify.DefaultTables(), testConfig(), Deps{
		Generator: gen,
		Dial: func(context.Context) (SearchClient, error) {
			t.Fatal("gateway dialed with no queries to run")
			return nil, nil
		},
	})

	record, err := spec.AnswerQuestion(context.Background(), "What is superposition?", AskOptions{SearchWeb: true})
	require.NoError(t, err)
	assert.Empty(t, record.SearchQueries)
	assert.Empty(t, record.SearchResultsText)
}

// flakyGenerator fails a fixed number of times before succeeding.
type flakyGenerator struct {
	failures int
	calls    int
}

func (g *flakyGenerator) Generate(context.Context, string, string) (string, error) {
	g.calls++
	if g.calls <= g.failures {
		return "", fmt.Errorf("transient failure %d", g.calls)
	}
	return "ok", nil
}

func TestGenerateWithRetry(t *testing.T) {
	orig := backoffBase
	backoffBase = time.Millisecond
	defer func() { backoffBase = orig }()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		g := &flakyGenerator{failures: 2}
		text, err := GenerateWithRetry(context.Background(), g, "", "prompt", 3)
		require.NoError(t, err)
		assert.Equal(t, "ok", text)
		assert.Equal(t, 3, g.calls)
	})

	t.Run("exhausts retries", func(t *testing.T) {
		g := &flakyGenerator{failures: 10}
		_, err := GenerateWithRetry(context.Background(), g, "", "prompt", 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 retries")
		assert.Equal(t, 3, g.calls)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		g := &flakyGenerator{failures: 10}
		_, err := GenerateWithRetry(ctx, g, "", "prompt", 3)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.LLMConfig
		wantErr bool
	}{
		{
			name: "openai",
			cfg:  types.LLMConfig{Provider: types.ProviderOpenAI, APIKey: "sk-test"},
		},
		{
			name: "anthropic",
			cfg:  types.LLMConfig{Provider: types.ProviderAnthropic, APIKey: "sk-ant-test"},
		},
		{
			name:    "missing key",
			cfg:     types.LLMConfig{Provider: types.ProviderOpenAI},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     types.LLMConfig{Provider: "gemini", APIKey: "k"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, g)
		})
	}
}
