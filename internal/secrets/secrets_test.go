// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingDirectory(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestLoadReadsAndTrims(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "openai-api-key"), []byte("sk-test\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "serpapi-key"), []byte("  abc  "), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("skip"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("   \n"), 0o600))

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", s["openai-api-key"])
	assert.Equal(t, "abc", s["serpapi-key"])
	assert.NotContains(t, s, ".hidden")
	assert.NotContains(t, s, "empty")
}

func TestKeysSorted(t *testing.T) {
	s := map[string]string{"b": "1", "a": "2", "c": "3"}
	assert.Equal(t, []string{"a", "b", "c"}, Keys(s))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		llm     string
		serp    string
		google  string
		cse     string
		missing int
	}{
		{"all set", "k", "s", "", "", 0},
		{"google pair", "k", "", "g", "c", 0},
		{"no llm", "", "s", "", "", 1},
		{"no search", "k", "", "", "", 1},
		{"google key without cse", "k", "", "g", "", 1},
		{"nothing", "", "", "", "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.llm, tt.serp, tt.google, tt.cse)
			assert.Len(t, got, tt.missing)
		})
	}
}
