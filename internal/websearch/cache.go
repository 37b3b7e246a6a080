// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

// Cache is a best-effort on-disk cache of search responses, one JSON file
// per (query, maxResults) pair. Read and write failures are swallowed: a
// broken cache only costs a repeated API call.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at dir (default "data/cache/search").
func NewCache(dir string) *Cache {
	if dir == "" {
		dir = filepath.Join("data", "cache", "search")
	}
	return &Cache{dir: dir}
}

type cacheEntry struct {
	Timestamp time.Time            `json:"timestamp"`
	Results   []types.EvidenceItem `json:"results"`
}

func (c *Cache) path(query string, maxResults int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%d", query, maxResults)))
	return filepath.Join(c.dir, fmt.Sprintf("%x.json", sum[:16]))
}

// Get returns the cached items for the query, if present and readable.
func (c *Cache) Get(query string, maxResults int) ([]types.EvidenceItem, bool) {
	data, err := os.ReadFile(c.path(query, maxResults))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return entry.Results, true
}

// Put stores the items for the query.
func (c *Cache) Put(query string, maxResults int, items []types.EvidenceItem) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return
	}

	data, err := json.MarshalIndent(cacheEntry{Timestamp: time.Now(), Results: items}, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(c.path(query, maxResults), data, 0o644)
}
