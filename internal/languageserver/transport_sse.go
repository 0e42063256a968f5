package languageserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"codenerd/internal/logging"
)

// SSETransport speaks JSON-RPC over a long-lived server-sent-events
// connection for language servers exposed over HTTP rather than spawned as
// a subprocess (e.g. a remote analysis service fronting several
// workspaces). Responses arrive as SSE "message" events; requests are
// POSTed to a sibling endpoint and correlated by id exactly like
// StdioTransport.
type SSETransport struct {
	mu sync.RWMutex

	baseURL string
	client  *http.Client

	connected bool
	nextID    int
	pending   map[int]chan *jsonrpcResponse

	cancelStream context.CancelFunc
	done         chan struct{}
	backoff      time.Duration

	log *logging.Logger
}

// NewSSETransport builds a transport against baseURL, e.g.
// "http://localhost:4389".
func NewSSETransport(baseURL string, timeout time.Duration) *SSETransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SSETransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		nextID:  1,
		pending: make(map[int]chan *jsonrpcResponse),
		backoff: 500 * time.Millisecond,
		log:     logging.Get(logging.CategoryProvider),
	}
}

// Connect opens the SSE event stream and starts reconnecting with backoff
// if the stream drops while the transport is still wanted.
func (t *SSETransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	if t.connected {
		t.mu.Unlock()
		return nil
	}
	streamCtx, cancel := context.WithCancel(context.Background())
	t.cancelStream = cancel
	t.done = make(chan struct{})
	t.connected = true
	t.mu.Unlock()

	go t.streamLoop(streamCtx)

	// Probe the server's /health endpoint. The probe's outcome is not
	// checked: Connect returns nil either way, and an unreachable server
	// surfaces as an error from the first call (Initialize).
	probeCtx, probeCancel := context.WithTimeout(ctx, 5*time.Second)
	defer probeCancel()
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, t.baseURL+"/health", nil)
	if err == nil {
		if resp, err := t.client.Do(req); err == nil {
			resp.Body.Close()
		}
	}
	return nil
}

// streamLoop owns the SSE connection and reconnects with exponential
// backoff (capped at 30s) until Disconnect cancels the context.
func (t *SSETransport) streamLoop(ctx context.Context) {
	backoff := t.backoff
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := t.readEvents(ctx); err != nil {
			t.log.Warn("sse %s: stream error: %v, retrying in %v", t.baseURL, err, backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}
	}
}

func (t *SSETransport) readEvents(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	var dataLines []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data:"))
		case line == "":
			if len(dataLines) > 0 {
				t.dispatch([]byte(strings.Join(dataLines, "\n")))
				dataLines = nil
			}
		}
	}
	return scanner.Err()
}

func (t *SSETransport) dispatch(payload []byte) {
	var resp jsonrpcResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		t.log.Debug("sse %s: unparseable event: %v", t.baseURL, err)
		return
	}
	t.mu.Lock()
	ch, ok := t.pending[resp.ID]
	if ok {
		delete(t.pending, resp.ID)
	}
	t.mu.Unlock()
	if ok {
		ch <- &resp
	}
}

// Disconnect stops the reconnect loop.
func (t *SSETransport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return nil
	}
	t.connected = false
	if t.cancelStream != nil {
		t.cancelStream()
	}
	for id, ch := range t.pending {
		close(ch)
		delete(t.pending, id)
	}
	return nil
}

// call POSTs a JSON-RPC request and waits for its correlated SSE reply.
func (t *SSETransport) call(ctx context.Context, method string, params interface{}) (*jsonrpcResponse, error) {
	t.mu.Lock()
	if !t.connected {
		t.mu.Unlock()
		return nil, fmt.Errorf("languageserver: sse %s not connected", t.baseURL)
	}
	id := t.nextID
	t.nextID++
	ch := make(chan *jsonrpcResponse, 1)
	t.pending[id] = ch
	t.mu.Unlock()

	req := jsonrpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/rpc", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Content-Length", strconv.Itoa(len(body)))

	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return nil, err
	}
	resp.Body.Close()

	select {
	case r := <-ch:
		if r == nil {
			return nil, fmt.Errorf("languageserver: sse %s connection closed", t.baseURL)
		}
		if r.Error != nil {
			return nil, fmt.Errorf("languageserver: sse %s error %d: %s", t.baseURL, r.Error.Code, r.Error.Message)
		}
		return r, nil
	case <-ctx.Done():
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return nil, ctx.Err()
	}
}

// Initialize performs the LSP handshake over the RPC endpoint.
func (t *SSETransport) Initialize(ctx context.Context) (Capabilities, error) {
	resp, err := t.call(ctx, "initialize", map[string]interface{}{
		"processId":    nil,
		"rootUri":      nil,
		"capabilities": map[string]interface{}{},
	})
	if err != nil {
		return Capabilities{}, err
	}
	var result struct {
		Capabilities Capabilities `json:"capabilities"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return Capabilities{}, fmt.Errorf("parse initialize result: %w", err)
	}
	return result.Capabilities, nil
}

// Completion issues textDocument/completion over the RPC endpoint.
func (t *SSETransport) Completion(ctx context.Context, params CompletionParams) (CompletionList, error) {
	resp, err := t.call(ctx, "textDocument/completion", params)
	if err != nil {
		return CompletionList{}, err
	}
	var list CompletionList
	if err := json.Unmarshal(resp.Result, &list); err != nil {
		return CompletionList{}, fmt.Errorf("parse completion result: %w", err)
	}
	return list, nil
}

// IsConnected reports whether the reconnect loop is currently running.
func (t *SSETransport) IsConnected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected
}
