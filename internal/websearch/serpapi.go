// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/interp-assistant/internal/httputil"
	"github.com/pdiddy/interp-assistant/pkg/types"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests
// can substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search"

// SerpAPIBackend queries SerpAPI's Google engine (R3.1).
type SerpAPIBackend struct {
	Client *http.Client
	APIKey string

	userAgent  string
	maxRetries int
}

// NewSerpAPIBackend builds the backend from the web search configuration.
func NewSerpAPIBackend(cfg types.WebSearchConfig) *SerpAPIBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SerpAPIBackend{
		Client:    &http.Client{Timeout: timeout},
		APIKey:    cfg.SerpAPIKey,
		userAgent: cfg.UserAgent,
	}
}

// Name returns the backend identifier.
func (b *SerpAPIBackend) Name() string { return "serpapi" }

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

// Search queries SerpAPI and returns up to maxResults items.
func (b *SerpAPIBackend) Search(ctx context.Context, query string, maxResults int) ([]types.EvidenceItem, error) {
	params := url.Values{
		"q":       {query},
		"api_key": {b.APIKey},
		"num":     {strconv.Itoa(maxResults)},
		"engine":  {"google"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, b.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("SerpAPI request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SerpAPI returned HTTP %d", resp.StatusCode)
	}

	var sr serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing SerpAPI response: %w", err)
	}

	items := make([]types.EvidenceItem, 0, len(sr.OrganicResults))
	for _, it := range sr.OrganicResults {
		items = append(items, types.EvidenceItem{
			Title:   it.Title,
			URL:     it.Link,
			Snippet: it.Snippet,
		})
		if len(items) == maxResults {
			break
		}
	}
	return items, nil
}
