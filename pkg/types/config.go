// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "interp-assistant/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LLMProvider identifies the text-generation backend.
type LLMProvider string

const (
	ProviderOpenAI    LLMProvider = "openai"
	ProviderAnthropic LLMProvider = "anthropic"
)

// LLMConfig holds settings for the text-generation service.
// Per prd004-generation R1.1-R1.4.
type LLMConfig struct {
	// Provider selects the backend: openai or anthropic.
	Provider LLMProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "gpt-4o", "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature (OpenAI only; default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens caps the generated answer length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// WebSearchConfig holds settings for the web search backends behind the
// evidence gateway. Per prd002-gateway R3.1-R3.6.
type WebSearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// SerpAPIKey enables the SerpAPI backend when non-empty.
	SerpAPIKey string `json:"serpapi_key,omitempty" yaml:"serpapi_key,omitempty"`

	// GoogleAPIKey and GoogleCSEID enable the Google Custom Search backend.
	GoogleAPIKey string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`
	GoogleCSEID  string `json:"google_cse_id,omitempty" yaml:"google_cse_id,omitempty"`

	// CacheEnabled turns on the on-disk result cache.
	CacheEnabled bool `json:"cache_enabled" yaml:"cache_enabled"`

	// CacheDir is the directory for cached search responses
	// (default "data/cache/search").
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// GatewayConfig holds settings for the evidence gateway client.
// Per prd002-gateway R1.1-R1.4, R2.2.
type GatewayConfig struct {
	// ServerCommand is the command line used to spawn the gateway server
	// process. Empty means "this binary's search-server subcommand".
	ServerCommand string `json:"server_command,omitempty" yaml:"server_command,omitempty"`

	// NumResults is the result count requested per query (1-10, default 5).
	NumResults int `json:"num_results" yaml:"num_results"`

	// ConnectTimeout bounds the initialize handshake (default 5s). A
	// handshake that exceeds it fails the query attempt.
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
}

// EvalConfig holds settings for the evaluation driver.
// Per prd005-evaluation R1.1-R1.3, R4.1.
type EvalConfig struct {
	// SuitePath points to a YAML test-case suite. Empty selects the
	// built-in suite.
	SuitePath string `json:"suite_path,omitempty" yaml:"suite_path,omitempty"`

	// Metrics names the scorers to run (default: all).
	Metrics []string `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// ResultsDir is where the SQLite results database lives
	// (default "results").
	ResultsDir string `json:"results_dir" yaml:"results_dir"`

	// Limit caps the number of cases evaluated (0 = all).
	Limit int `json:"limit" yaml:"limit"`
}

// AssistantConfig groups all component configurations.
type AssistantConfig struct {
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	WebSearch WebSearchConfig `json:"web_search" yaml:"web_search"`
	Gateway   GatewayConfig   `json:"gateway" yaml:"gateway"`
	Eval      EvalConfig      `json:"eval" yaml:"eval"`

	// KeywordsFile optionally overrides the built-in routing and
	// classification keyword tables with a YAML file.
	KeywordsFile string `json:"keywords_file,omitempty" yaml:"keywords_file,omitempty"`
}
