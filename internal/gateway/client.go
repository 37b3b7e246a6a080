// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ErrGateway is the single error class for all gateway failures:
// connection establishment, handshake timeout, and upstream search
// errors. Callers may branch on it with errors.Is but never see raw
// transport errors from inside the server process.
var ErrGateway = errors.New("evidence gateway")

// defaultConnectTimeout bounds the initialize handshake.
const defaultConnectTimeout = 5 * time.Second

// Client is one connection to a gateway server subprocess. It is scoped
// to a single search phase: Dial before the first query, Close after the
// last one on every exit path, or the child process leaks.
type Client struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	mu      sync.Mutex
	nextID  int
	pending map[int]chan response
	closed  bool

	wg sync.WaitGroup
}

// Options configures Dial.
type Options struct {
	// ServerCommand is the command line of the server process. Empty
	// spawns this binary's own search-server subcommand.
	ServerCommand string

	// ConnectTimeout bounds the initialize handshake (default 5s).
	ConnectTimeout time.Duration

	// Stderr receives the child's stderr. Nil discards it.
	Stderr io.Writer
}

// Dial spawns the server process and performs the initialize handshake.
// A handshake that does not complete within the connect timeout is fatal:
// the child is killed and the error surfaces to the caller.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	name, args, err := serverCommand(opts.ServerCommand)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	cmd := exec.Command(name, args...)
	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %v", ErrGateway, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrGateway, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: starting %s: %v", ErrGateway, name, err)
	}

	c := &Client{
		cmd:     cmd,
		stdin:   stdin,
		nextID:  1,
		pending: make(map[int]chan response),
	}

	c.wg.Add(1)
	go c.readResponses(stdout)

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	hsCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.initialize(hsCtx); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: initialize handshake: %v", ErrGateway, err)
	}

	return c, nil
}

// serverCommand resolves the configured command line, defaulting to this
// binary's hidden search-server subcommand.
func serverCommand(configured string) (string, []string, error) {
	if configured != "" {
		parts := strings.Fields(configured)
		return parts[0], parts[1:], nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", nil, fmt.Errorf("resolving own executable: %v", err)
	}
	return exe, []string{"search-server"}, nil
}

func (c *Client) initialize(ctx context.Context) error {
	_, err := c.call(ctx, methodInitialize, map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]string{"name": "interp-assistant", "version": "0.1"},
	})
	if err != nil {
		return err
	}

	// Fire-and-forget notification; the server expects it after initialize.
	notif, _ := json.Marshal(request{JSONRPC: "2.0", Method: methodInitialized})
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("connection closed")
	}
	_, err = c.stdin.Write(append(notif, '\n'))
	return err
}

// Search issues one web_search call and returns the formatted result
// text. Upstream failures surface as ErrGateway-wrapped errors.
func (c *Client) Search(ctx context.Context, query string, numResults int) (string, error) {
	args, _ := json.Marshal(webSearchArgs{Query: query, NumResults: numResults})
	result, err := c.call(ctx, methodCallTool, callToolParams{Name: toolWebSearch, Arguments: args})
	if err != nil {
		return "", fmt.Errorf("%w: search %q: %v", ErrGateway, query, err)
	}

	var ctr callToolResult
	if err := json.Unmarshal(result, &ctr); err != nil {
		return "", fmt.Errorf("%w: parsing tool result: %v", ErrGateway, err)
	}

	var texts []string
	for _, block := range ctr.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}
	return strings.Join(texts, "\n"), nil
}

// Close terminates the server process and releases the connection. It is
// safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()

	c.stdin.Close()
	if c.cmd.Process != nil {
		c.cmd.Process.Kill()
	}
	c.cmd.Wait()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

// call sends one request and waits for its matching response.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	var rawParams json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshaling params: %v", err)
		}
		rawParams = data
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("connection closed")
	}
	id := c.nextID
	c.nextID++
	ch := make(chan response, 1)
	c.pending[id] = ch

	data, err := json.Marshal(request{JSONRPC: "2.0", ID: &id, Method: method, Params: rawParams})
	if err != nil {
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("marshaling request: %v", err)
	}
	if _, err := c.stdin.Write(append(data, '\n')); err != nil {
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("writing request: %v", err)
	}
	c.mu.Unlock()

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("connection closed")
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("server error %d: %s", resp.Error.Code, resp.Error.Message)
		}
		return resp.Result, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, ctx.Err()
	}
}

// readResponses dispatches server responses to waiting callers by
// request ID until the child's stdout closes.
func (c *Client) readResponses(stdout io.Reader) {
	defer c.wg.Done()

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
			ch <- resp
		}
		c.mu.Unlock()
	}
}
