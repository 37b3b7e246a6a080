// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/interp-assistant/pkg/types"
)

// SearchBackend is the capability the server serves. Satisfied by
// websearch.Searcher in production and by fakes in tests.
type SearchBackend interface {
	Search(ctx context.Context, query string, maxResults int) ([]types.EvidenceItem, error)
}

// Server serves the web_search tool over newline-delimited JSON-RPC.
// Requests are handled one at a time in arrival order; stdio framing
// gives no benefit to concurrent handling here.
type Server struct {
	search SearchBackend
}

// NewServer returns a Server backed by the given search capability.
func NewServer(search SearchBackend) *Server {
	return &Server{search: search}
}

// Serve reads requests from r and writes responses to w until r is
// exhausted or ctx is cancelled. Malformed lines are skipped; per-request
// failures become JSON-RPC error responses, never raw failures on the
// transport.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}

		// Notifications get no response.
		if req.ID == nil {
			continue
		}

		resp := s.handle(ctx, req)
		data, err := json.Marshal(resp)
		if err != nil {
			return fmt.Errorf("marshaling response: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	return scanner.Err()
}

func (s *Server) handle(ctx context.Context, req request) response {
	resp := response{JSONRPC: "2.0", ID: *req.ID}

	switch req.Method {
	case methodInitialize:
		resp.Result = mustMarshal(initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]any{"tools": map[string]any{}},
			ServerInfo:      serverInfo{Name: "search-server", Version: "0.1"},
		})

	case methodListTools:
		resp.Result = mustMarshal(map[string]any{
			"tools": []toolSchema{webSearchSchema()},
		})

	case methodCallTool:
		result, rpcErr := s.callTool(ctx, req.Params)
		if rpcErr != nil {
			resp.Error = rpcErr
			break
		}
		resp.Result = mustMarshal(result)

	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("unknown method: %s", req.Method)}
	}

	return resp
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (callToolResult, *rpcError) {
	var p callToolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return callToolResult{}, &rpcError{Code: codeInvalidParams, Message: "malformed tool call params"}
	}
	if p.Name != toolWebSearch {
		return callToolResult{}, &rpcError{Code: codeInvalidParams, Message: fmt.Sprintf("unknown tool: %s", p.Name)}
	}

	var args webSearchArgs
	if err := json.Unmarshal(p.Arguments, &args); err != nil {
		return callToolResult{}, &rpcError{Code: codeInvalidParams, Message: "malformed web_search arguments"}
	}
	if args.Query == "" {
		return callToolResult{}, &rpcError{Code: codeInvalidParams, Message: "query parameter is required"}
	}

	numResults := args.NumResults
	if numResults <= 0 {
		numResults = 5
	}
	if numResults > 10 {
		numResults = 10
	}

	items, err := s.search.Search(ctx, args.Query, numResults)
	if err != nil {
		// The upstream message crosses the boundary; the transport error
		// itself does not.
		return callToolResult{}, &rpcError{Code: codeInternalError, Message: fmt.Sprintf("Search API error: %v", err)}
	}

	return callToolResult{
		Content: []contentBlock{{Type: "text", Text: FormatResults(items)}},
	}, nil
}

func webSearchSchema() toolSchema {
	return toolSchema{
		Name: toolWebSearch,
		Description: "Search the web and return results with titles, URLs, and snippets. " +
			"Best used for finding research papers, documentation, and technical resources " +
			"about mechanistic interpretability, machine learning, and AI.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query string",
				},
				"num_results": map[string]any{
					"type":        "integer",
					"description": "Number of results to return (1-10, default: 5)",
					"default":     5,
					"minimum":     1,
					"maximum":     10,
				},
			},
			"required": []string{"query"},
		},
	}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
