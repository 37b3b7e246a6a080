// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch queries third-party web search APIs and returns
// unified results. Each API implements the Backend interface per the
// Strategy pattern. Implements: prd002-gateway (R3.1-R3.6);
//
//	docs/ARCHITECTURE § Evidence Gateway.
package websearch

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

// Backend searches a single web search API.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]types.EvidenceItem, error)
}

// Searcher tries configured backends in preference order and returns the
// first non-empty result set. Backend failures are logged to w and the
// next backend is tried; only when every backend fails does Search return
// an error.
type Searcher struct {
	backends []Backend
	cache    *Cache
	w        io.Writer
}

// NewSearcher builds a Searcher from the configuration. SerpAPI is
// preferred when keyed, then Google Custom Search. Progress and warnings
// go to w.
func NewSearcher(cfg types.WebSearchConfig, w io.Writer) (*Searcher, error) {
	var backends []Backend

	if cfg.SerpAPIKey != "" {
		backends = append(backends, NewSerpAPIBackend(cfg))
	}
	if cfg.GoogleAPIKey != "" && cfg.GoogleCSEID != "" {
		backends = append(backends, NewGoogleCSEBackend(cfg))
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no search backends configured: set serpapi-key or google-api-key + google-cse-id")
	}

	var cache *Cache
	if cfg.CacheEnabled {
		cache = NewCache(cfg.CacheDir)
	}

	return &Searcher{backends: backends, cache: cache, w: w}, nil
}

// Search runs the query against the backends in order. Results keep the
// API's ranking order; the caller's citation numbering depends on it.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int) ([]types.EvidenceItem, error) {
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if maxResults < 1 {
		maxResults = 5
	}
	if maxResults > 10 {
		maxResults = 10
	}

	if s.cache != nil {
		if items, ok := s.cache.Get(query, maxResults); ok {
			return items, nil
		}
	}

	var lastErr error
	for _, b := range s.backends {
		items, err := b.Search(ctx, query, maxResults)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", b.Name(), err)
			fmt.Fprintf(s.w, "warning: backend %s failed: %v\n", b.Name(), err)
			continue
		}
		if len(items) == 0 {
			continue
		}
		if s.cache != nil {
			s.cache.Put(query, maxResults, items)
		}
		return items, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	// Every backend answered with zero results.
	return nil, nil
}
