// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

// NoResultsSentinel is the literal text returned for a zero-result search.
// Prompt templates always receive renderable text, never an empty block.
const NoResultsSentinel = "No search results found."

// FormatResults renders search results as numbered citation blocks:
//
//	Found N search results:
//
//	[1] Title
//	    URL: https://...
//	    Snippet text
//
// The exact shape is a wire contract: answer prompts cite results by the
// bracketed index, and ParseRetrievalContext recovers the snippets by
// splitting on it.
func FormatResults(items []types.EvidenceItem) string {
	if len(items) == 0 {
		return NoResultsSentinel
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d search results:\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, item.Title)
		fmt.Fprintf(&b, "    URL: %s\n", item.URL)
		fmt.Fprintf(&b, "    %s\n\n", item.Snippet)
	}
	return b.String()
}

var bracketIndex = regexp.MustCompile(`\[\d+\]`)

// ParseRetrievalContext recovers individual snippets from formatted search
// text for evaluation scoring. The text is split on the bracket-index
// pattern; each segment contributes its last non-empty line that does not
// start with "URL:". Segments with no such line are dropped silently:
// the output is advisory, so extraction is best-effort and never fails.
func ParseRetrievalContext(searchResultsText string) []string {
	if searchResultsText == "" {
		return nil
	}

	segments := bracketIndex.Split(searchResultsText, -1)
	if len(segments) < 2 {
		return nil
	}

	var contexts []string
	for _, segment := range segments[1:] {
		lines := strings.Split(strings.TrimSpace(segment), "\n")
		for i := len(lines) - 1; i >= 0; i-- {
			line := strings.TrimSpace(lines[i])
			if line != "" && !strings.HasPrefix(line, "URL:") {
				contexts = append(contexts, line)
				break
			}
		}
	}
	return contexts
}
