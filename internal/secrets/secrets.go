// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of
// plain-text files. Each file in the directory represents one secret: the
// filename is the key name and the file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, anthropic-api-key, google-api-key,
// google-cse-id, serpapi-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory or missing files are not errors; Load
// returns an empty map. Unreadable files produce a warning on stderr but
// do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Keys returns the loaded key names in sorted order, for startup logging.
func Keys(s map[string]string) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that the credentials required to run the assistant are
// present: an LLM key for the selected provider and at least one search
// API credential set. It returns one message per missing item so the CLI
// can print them all and refuse to start.
func Validate(llmKey, serpKey, googleKey, googleCSE string) []string {
	var missing []string

	if llmKey == "" {
		missing = append(missing, "LLM API key is not set (openai-api-key or anthropic-api-key)")
	}

	haveSerp := serpKey != ""
	haveGoogle := googleKey != "" && googleCSE != ""
	if !haveSerp && !haveGoogle {
		missing = append(missing, "no search API configured (serpapi-key, or google-api-key + google-cse-id)")
	}

	return missing
}
