// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

type fakeSearch struct {
	items []types.EvidenceItem
	err   error

	gotQuery string
	gotMax   int
}

func (f *fakeSearch) Search(_ context.Context, query string, maxResults int) ([]types.EvidenceItem, error) {
	f.gotQuery = query
	f.gotMax = maxResults
	return f.items, f.err
}

// serve feeds newline-delimited requests through the server and returns
// the decoded responses in order.
func serve(t *testing.T, s *Server, lines ...string) []response {
	t.Helper()

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	if err := s.Serve(context.Background(), in, &out); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	var resps []response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var r response
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("unmarshaling response line %q: %v", line, err)
		}
		resps = append(resps, r)
	}
	return resps
}

func callToolLine(id int, tool string, args string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":"tools/call","params":{"name":%q,"arguments":%s}}`, id, tool, args)
}

func TestServeInitialize(t *testing.T) {
	s := NewServer(&fakeSearch{})

	resps := serve(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)

	if len(resps) != 1 {
		t.Fatalf("got %d responses, want 1", len(resps))
	}
	if resps[0].Error != nil {
		t.Fatalf("initialize error: %+v", resps[0].Error)
	}

	var result initializeResult
	if err := json.Unmarshal(resps[0].Result, &result); err != nil {
		t.Fatalf("unmarshaling result: %v", err)
	}
	if result.ProtocolVersion != protocolVersion {
		t.Errorf("protocolVersion = %q", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "search-server" {
		t.Errorf("server name = %q", result.ServerInfo.Name)
	}
}

func TestServeListTools(t *testing.T) {
	s := NewServer(&fakeSearch{})

	resps := serve(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	var result struct {
		Tools []toolSchema `json:"tools"`
	}
	if err := json.Unmarshal(resps[0].Result, &result); err != nil {
		t.Fatalf("unmarshaling result: %v", err)
	}
	if len(result.Tools) != 1 || result.Tools[0].Name != "web_search" {
		t.Errorf("tools = %+v, want single web_search", result.Tools)
	}
}

func TestServeWebSearch(t *testing.T) {
	fake := &fakeSearch{items: []types.EvidenceItem{
		{Title: "T", URL: "https://t", Snippet: "snip"},
	}}
	s := NewServer(fake)

	resps := serve(t, s, callToolLine(3, "web_search", `{"query":"induction heads","num_results":4}`))

	if resps[0].Error != nil {
		t.Fatalf("tool call error: %+v", resps[0].Error)
	}
	if fake.gotQuery != "induction heads" || fake.gotMax != 4 {
		t.Errorf("backend saw query=%q max=%d", fake.gotQuery, fake.gotMax)
	}

	var result callToolResult
	if err := json.Unmarshal(resps[0].Result, &result); err != nil {
		t.Fatalf("unmarshaling result: %v", err)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" {
		t.Fatalf("content = %+v", result.Content)
	}
	if !strings.Contains(result.Content[0].Text, "[1] T") {
		t.Errorf("text = %q", result.Content[0].Text)
	}
}

func TestServeWebSearchDefaultsAndClamps(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		wantMax int
	}{
		{"default", `{"query":"q"}`, 5},
		{"clamped high", `{"query":"q","num_results":50}`, 10},
		{"clamped low", `{"query":"q","num_results":-1}`, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSearch{}
			s := NewServer(fake)
			serve(t, s, callToolLine(1, "web_search", tt.args))
			if fake.gotMax != tt.wantMax {
				t.Errorf("max = %d, want %d", fake.gotMax, tt.wantMax)
			}
		})
	}
}

func TestServeWebSearchZeroResultsSentinel(t *testing.T) {
	s := NewServer(&fakeSearch{})

	resps := serve(t, s, callToolLine(1, "web_search", `{"query":"nothing"}`))

	var result callToolResult
	if err := json.Unmarshal(resps[0].Result, &result); err != nil {
		t.Fatalf("unmarshaling result: %v", err)
	}
	if result.Content[0].Text != NoResultsSentinel {
		t.Errorf("text = %q, want sentinel", result.Content[0].Text)
	}
}

func TestServeWebSearchBackendFailure(t *testing.T) {
	s := NewServer(&fakeSearch{err: fmt.Errorf("quota exhausted")})

	resps := serve(t, s, callToolLine(1, "web_search", `{"query":"q"}`))

	if resps[0].Error == nil {
		t.Fatal("expected an error response")
	}
	if !strings.Contains(resps[0].Error.Message, "quota exhausted") {
		t.Errorf("error message = %q, want upstream message attached", resps[0].Error.Message)
	}
}

func TestServeErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"nope"}`},
		{"unknown tool", callToolLine(1, "other_tool", `{"query":"q"}`)},
		{"missing query", callToolLine(1, "web_search", `{}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resps := serve(t, NewServer(&fakeSearch{}), tt.line)
			if len(resps) != 1 || resps[0].Error == nil {
				t.Fatalf("responses = %+v, want single error", resps)
			}
		})
	}
}

func TestServeSkipsNotificationsAndGarbage(t *testing.T) {
	s := NewServer(&fakeSearch{})

	resps := serve(t, s,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		"not json at all",
		`{"jsonrpc":"2.0","id":7,"method":"tools/list"}`,
	)

	if len(resps) != 1 {
		t.Fatalf("got %d responses, want 1 (notifications and garbage skipped)", len(resps))
	}
	if resps[0].ID != 7 {
		t.Errorf("response ID = %d, want 7", resps[0].ID)
	}
}
