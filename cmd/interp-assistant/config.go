// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/interp-assistant/internal/agent"
	"github.com/pdiddy/interp-assistant/internal/router"
	"github.com/pdiddy/interp-assistant/internal/secrets"
	"github.com/pdiddy/interp-assistant/pkg/types"
)

func init() {
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-4o")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.max_retries", 3)
	viper.SetDefault("web_search.timeout", "30s")
	viper.SetDefault("web_search.user_agent", "interp-assistant/0.1")
	viper.SetDefault("web_search.cache_enabled", true)
	viper.SetDefault("web_search.cache_dir", "data/cache/search")
	viper.SetDefault("gateway.num_results", 5)
	viper.SetDefault("gateway.connect_timeout", "5s")
	viper.SetDefault("eval.results_dir", "results")
}

// assistantConfig assembles the full configuration from viper and the
// loaded secrets. Viper values win over secrets so environment overrides
// stay possible.
func assistantConfig() (types.AssistantConfig, error) {
	provider := types.LLMProvider(strings.ToLower(viper.GetString("llm.provider")))

	var llmKey string
	switch provider {
	case types.ProviderOpenAI:
		llmKey = secretDefault("openai-api-key", viper.GetString("llm.api_key"))
	case types.ProviderAnthropic:
		llmKey = secretDefault("anthropic-api-key", viper.GetString("llm.api_key"))
	default:
		return types.AssistantConfig{}, fmt.Errorf("unknown LLM provider %q", provider)
	}

	timeout, err := time.ParseDuration(viper.GetString("web_search.timeout"))
	if err != nil {
		return types.AssistantConfig{}, fmt.Errorf("parsing web_search.timeout: %w", err)
	}
	connectTimeout, err := time.ParseDuration(viper.GetString("gateway.connect_timeout"))
	if err != nil {
		return types.AssistantConfig{}, fmt.Errorf("parsing gateway.connect_timeout: %w", err)
	}

	return types.AssistantConfig{
		LLM: types.LLMConfig{
			Provider:    provider,
			Model:       viper.GetString("llm.model"),
			APIKey:      llmKey,
			Temperature: viper.GetFloat64("llm.temperature"),
			MaxTokens:   viper.GetInt("llm.max_tokens"),
			MaxRetries:  viper.GetInt("llm.max_retries"),
		},
		WebSearch: types.WebSearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: viper.GetString("web_search.user_agent"),
			},
			SerpAPIKey:   secretDefault("serpapi-key", viper.GetString("web_search.serpapi_key")),
			GoogleAPIKey: secretDefault("google-api-key", viper.GetString("web_search.google_api_key")),
			GoogleCSEID:  secretDefault("google-cse-id", viper.GetString("web_search.google_cse_id")),
			CacheEnabled: viper.GetBool("web_search.cache_enabled"),
			CacheDir:     viper.GetString("web_search.cache_dir"),
		},
		Gateway: types.GatewayConfig{
			ServerCommand:  viper.GetString("gateway.server_command"),
			NumResults:     viper.GetInt("gateway.num_results"),
			ConnectTimeout: connectTimeout,
		},
		Eval: types.EvalConfig{
			SuitePath:  viper.GetString("eval.suite_path"),
			Metrics:    viper.GetStringSlice("eval.metrics"),
			ResultsDir: viper.GetString("eval.results_dir"),
			Limit:      viper.GetInt("eval.limit"),
		},
		KeywordsFile: viper.GetString("keywords_file"),
	}, nil
}

// validateCredentials refuses to start when required API keys are
// missing, printing every missing item.
func validateCredentials(cfg types.AssistantConfig, needSearch bool) error {
	serpKey := cfg.WebSearch.SerpAPIKey
	googleKey := cfg.WebSearch.GoogleAPIKey
	googleCSE := cfg.WebSearch.GoogleCSEID
	if !needSearch {
		// Only the LLM key matters when search is disabled; pretend a
		// search credential exists so Validate does not flag it.
		serpKey = "unused"
	}

	missing := secrets.Validate(cfg.LLM.APIKey, serpKey, googleKey, googleCSE)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing credentials:\n  - %s", strings.Join(missing, "\n  - "))
}

// buildRouter wires the generator and both specialists from config.
func buildRouter(cfg types.AssistantConfig, log io.Writer) (*router.Router, agent.Generator, error) {
	gen, err := agent.NewGenerator(cfg.LLM)
	if err != nil {
		return nil, nil, err
	}

	feature, circuits, err := router.BuildSpecialists(cfg, gen, log)
	if err != nil {
		return nil, nil, err
	}
	return router.New(feature, circuits), gen, nil
}
