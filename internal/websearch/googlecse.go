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

// googleCSEBase is the Google Custom Search JSON API endpoint. Declared as
// a var so tests can substitute an httptest server.
var googleCSEBase = "https://www.googleapis.com/customsearch/v1"

// GoogleCSEBackend queries the Google Custom Search JSON API (R3.2).
type GoogleCSEBackend struct {
	Client *http.Client
	APIKey string
	CSEID  string

	userAgent  string
	maxRetries int
}

// NewGoogleCSEBackend builds the backend from the web search configuration.
func NewGoogleCSEBackend(cfg types.WebSearchConfig) *GoogleCSEBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleCSEBackend{
		Client:    &http.Client{Timeout: timeout},
		APIKey:    cfg.GoogleAPIKey,
		CSEID:     cfg.GoogleCSEID,
		userAgent: cfg.UserAgent,
	}
}

// Name returns the backend identifier.
func (b *GoogleCSEBackend) Name() string { return "google_cse" }

type googleCSEResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search queries the API and returns up to maxResults items. Google caps a
// single request at 10 results, which matches the gateway's upper bound.
func (b *GoogleCSEBackend) Search(ctx context.Context, query string, maxResults int) ([]types.EvidenceItem, error) {
	params := url.Values{
		"key": {b.APIKey},
		"cx":  {b.CSEID},
		"q":   {query},
		"num": {strconv.Itoa(maxResults)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleCSEBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, b.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("Google CSE request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google CSE returned HTTP %d", resp.StatusCode)
	}

	var gr googleCSEResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing Google CSE response: %w", err)
	}

	items := make([]types.EvidenceItem, 0, len(gr.Items))
	for _, it := range gr.Items {
		items = append(items, types.EvidenceItem{
			Title:   it.Title,
			URL:     it.Link,
			Snippet: it.Snippet,
		})
	}
	if len(items) > maxResults {
		items = items[:maxResults]
	}
	return items, nil
}
