// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gateway isolates the web search dependency behind a process
// boundary. The server side exposes a single web_search tool over a
// newline-delimited JSON-RPC 2.0 stdio protocol; the client side spawns
// the server process, holds one connection per search phase, and converts
// all upstream failures into a single error class.
// Implements: prd002-gateway (R1-R4); docs/ARCHITECTURE § Evidence Gateway.
package gateway

import "encoding/json"

// protocolVersion is the handshake version exchanged during initialize.
const protocolVersion = "2024-11-05"

// Method names understood by the server.
const (
	methodInitialize  = "initialize"
	methodInitialized = "notifications/initialized"
	methodListTools   = "tools/list"
	methodCallTool    = "tools/call"
)

// toolWebSearch is the single capability the gateway exposes.
const toolWebSearch = "web_search"

// request is a JSON-RPC 2.0 request or, when ID is nil, a notification.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int            `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// response is a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON-RPC 2.0 error codes used by the server.
const (
	codeInvalidParams = -32602
	codeMethodNotFound = -32601
	codeInternalError = -32603
)

// callToolParams is the parameter shape of a tools/call request.
type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// webSearchArgs is the argument shape of the web_search tool.
type webSearchArgs struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
}

// contentBlock is one element of a tool result's content list. The
// gateway only ever emits text blocks.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// callToolResult is the result shape of a tools/call response.
type callToolResult struct {
	Content []contentBlock `json:"content"`
}

// toolSchema describes a tool for tools/list.
type toolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// initializeResult is the result shape of the initialize handshake.
type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      serverInfo     `json:"serverInfo"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
