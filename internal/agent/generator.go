// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

// Generator abstracts the text-generation API so tests can supply a mock.
// Each implementation sends one system+user exchange and returns the
// model's text. Per Strategy pattern (prd004-generation R1.2).
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// NewGenerator builds the backend for the configured provider (R1.1).
func NewGenerator(cfg types.LLMConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key is not configured")
	}

	switch cfg.Provider {
	case types.ProviderOpenAI:
		return &OpenAIBackend{Config: cfg}, nil
	case types.ProviderAnthropic:
		return &AnthropicBackend{Config: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// backoffBase controls the base duration for exponential backoff on
// generation retries. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// GenerateWithRetry calls the generator with exponential backoff (R1.4).
func GenerateWithRetry(ctx context.Context, g Generator, system, user string, maxRetries int) (string, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := g.Generate(ctx, system, user)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// openAIAPIURL is the OpenAI chat completions endpoint. Package-level var
// for test substitution.
var openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend calls the OpenAI chat completions API (R2).
type OpenAIBackend struct {
	Config types.LLMConfig
	Client *http.Client
}

// openAIRequest is the request body for the chat completions API.
type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

// openAIMessage is a single message in the chat completions conversation.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIResponse is the response body from the chat completions API.
type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

// openAIChoice is one completion choice.
type openAIChoice struct {
	Message openAIMessage `json:"message"`
}

// Generate sends the system and user messages to OpenAI and returns the
// first choice's text (R2.1).
func (b *OpenAIBackend) Generate(ctx context.Context, system, user string) (string, error) {
	var messages []openAIMessage
	if system != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: system})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: user})

	reqBody := openAIRequest{
		Model:       b.Config.Model,
		Temperature: b.Config.Temperature,
		MaxTokens:   b.Config.MaxTokens,
		Messages:    messages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.Config.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", fmt.Errorf("decoding OpenAI response: %w", err)
	}

	if len(oResp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}
	return oResp.Choices[0].Message.Content, nil
}

// anthropicAPIURL is the Anthropic Messages API endpoint. Package-level
// var for test substitution.
var anthropicAPIURL = "https://api.anthropic.com/v1/messages"

// AnthropicBackend calls the Anthropic Messages API (R2).
type AnthropicBackend struct {
	Config types.LLMConfig
	Client *http.Client
}

// anthropicRequest is the request body for the Messages API.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

// anthropicMessage is a single message in the Messages API conversation.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the response body from the Messages API.
type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

// anthropicContent is a content block in the Messages API response.
type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate sends the system and user messages to Anthropic and returns
// the concatenated text blocks (R2.2).
func (b *AnthropicBackend) Generate(ctx context.Context, system, user string) (string, error) {
	maxTokens := b.Config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	reqBody := anthropicRequest{
		Model:       b.Config.Model,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: b.Config.Temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: user},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.Config.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Anthropic API returned %d: %s", resp.StatusCode, string(body))
	}

	var aResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&aResp); err != nil {
		return "", fmt.Errorf("decoding Anthropic response: %w", err)
	}

	var text string
	for _, block := range aResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text content in Anthropic API response")
	}
	return text, nil
}
