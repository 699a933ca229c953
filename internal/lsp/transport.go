package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Transport frames JSON-RPC 2.0 messages with Content-Length headers.
// Correlation ids are allocated by the caller (the Bridge keeps the
// request table); the transport only matches response ids to waiting
// channels.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer
	closer io.Closer

	mu       sync.Mutex
	nextID   atomic.Int64
	pending  map[int64]chan *Response
	handlers map[string]NotificationHandler
	onError  func(error)

	logger *zap.Logger
	closed atomic.Bool
	done   chan struct{}
}

// NotificationHandler handles a server-initiated notification.
type NotificationHandler func(method string, params json.RawMessage)

// Request is an outbound JSON-RPC request or notification.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// Response is an inbound JSON-RPC response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithTransportLogger sets the transport's logger.
func WithTransportLogger(l *zap.Logger) TransportOption {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// NewTransport creates a transport over the given stream, typically a
// child process's stdout/stdin pair.
func NewTransport(r io.Reader, w io.Writer, c io.Closer, opts ...TransportOption) *Transport {
	t := &Transport{
		reader:   bufio.NewReaderSize(r, 64*1024),
		writer:   w,
		closer:   c,
		pending:  make(map[int64]chan *Response),
		handlers: make(map[string]NotificationHandler),
		logger:   zap.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins the read loop.
func (t *Transport) Start(ctx context.Context) {
	go t.readLoop(ctx)
}

// Close closes the transport. Waiters on pending calls unblock with
// ErrShutdown.
func (t *Transport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	close(t.done)

	t.mu.Lock()
	t.pending = make(map[int64]chan *Response)
	t.mu.Unlock()

	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// IsClosed returns true once the transport is closed.
func (t *Transport) IsClosed() bool {
	return t.closed.Load()
}

// NextID allocates a fresh correlation id.
func (t *Transport) NextID() int64 {
	return t.nextID.Add(1)
}

// OnNotification registers a handler for a server notification method.
// "*" matches any method without a dedicated handler.
func (t *Transport) OnNotification(method string, handler NotificationHandler) {
	t.mu.Lock()
	t.handlers[method] = handler
	t.mu.Unlock()
}

// OnProtocolError registers the callback invoked when the server sends
// a malformed message.
func (t *Transport) OnProtocolError(fn func(error)) {
	t.mu.Lock()
	t.onError = fn
	t.mu.Unlock()
}

// Call sends a request under the given correlation id and waits for
// its response.
func (t *Transport) Call(ctx context.Context, id int64, method string, params any) (json.RawMessage, error) {
	if t.closed.Load() {
		return nil, ErrShutdown
	}

	ch := make(chan *Response, 1)
	t.mu.Lock()
	t.pending[id] = ch
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
	}()

	req := &Request{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	if err := t.send(req); err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return nil, ErrShutdown
	case resp := <-ch:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	}
}

// Notify sends a notification; no response is expected.
func (t *Transport) Notify(method string, params any) error {
	if t.closed.Load() {
		return ErrShutdown
	}
	return t.send(&Request{JSONRPC: "2.0", Method: method, Params: params})
}

func (t *Transport) send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))
	if _, err := io.WriteString(t.writer, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

func (t *Transport) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		default:
		}

		msg, err := t.readMessage()
		if err != nil {
			if t.closed.Load() || err == io.EOF || err == io.ErrClosedPipe {
				return
			}
			t.logger.Warn("malformed server message", zap.Error(err))
			t.reportProtocolError(err)
			return
		}

		t.dispatch(msg)
	}
}

// readMessage reads one Content-Length framed message.
func (t *Transport) readMessage() (json.RawMessage, error) {
	var contentLength int
	for {
		line, err := t.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			parts := strings.SplitN(line, ":", 2)
			n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, fmt.Errorf("%w: bad Content-Length %q", ErrProtocol, parts[1])
			}
			contentLength = n
		}
		// Content-Type and other headers are ignored.
	}

	if contentLength <= 0 {
		return nil, fmt.Errorf("%w: missing Content-Length header", ErrProtocol)
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(t.reader, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// dispatch routes one message. The probe avoids a full unmarshal for
// routing: a message with an id and a result or error is a response,
// one with a method is a notification.
func (t *Transport) dispatch(data json.RawMessage) {
	if !gjson.ValidBytes(data) {
		t.reportProtocolError(fmt.Errorf("%w: invalid JSON body", ErrProtocol))
		return
	}

	probe := gjson.GetManyBytes(data, "id", "method", "result", "error")
	id, method := probe[0], probe[1]
	result, rpcErr := probe[2], probe[3]

	if id.Exists() && (result.Exists() || rpcErr.Exists()) {
		var resp Response
		if err := json.Unmarshal(data, &resp); err != nil {
			t.reportProtocolError(fmt.Errorf("%w: %v", ErrProtocol, err))
			return
		}
		t.handleResponse(&resp)
		return
	}

	if method.Exists() {
		if id.Exists() {
			// Server-initiated request. The client exposes no callable
			// methods, but servers that block on the reply
			// (workspace/configuration, client/registerCapability)
			// must still receive one.
			t.rejectRequest(id.Int(), method.String())
			return
		}
		t.handleNotification(method.String(), []byte(gjson.GetBytes(data, "params").Raw))
		return
	}

	t.reportProtocolError(fmt.Errorf("%w: message is neither response nor notification", ErrProtocol))
}

// codeMethodNotFound is the JSON-RPC error for an unsupported method.
const codeMethodNotFound = -32601

// rejectRequest answers a server request with MethodNotFound.
func (t *Transport) rejectRequest(id int64, method string) {
	resp := &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    codeMethodNotFound,
			Message: "method not supported: " + method,
		},
	}
	if err := t.send(resp); err != nil {
		t.logger.Warn("server request not answered",
			zap.String("method", method), zap.Error(err))
	}
}

func (t *Transport) handleResponse(resp *Response) {
	if t.closed.Load() {
		return
	}

	t.mu.Lock()
	ch, ok := t.pending[resp.ID]
	if ok {
		delete(t.pending, resp.ID)
	}
	t.mu.Unlock()

	if ok {
		select {
		case ch <- resp:
		default:
		}
	}
}

func (t *Transport) handleNotification(method string, params json.RawMessage) {
	t.mu.Lock()
	handler, ok := t.handlers[method]
	if !ok {
		handler, ok = t.handlers["*"]
	}
	t.mu.Unlock()

	if ok && handler != nil {
		// Handlers run off the read loop so a slow consumer cannot
		// stall response matching.
		go handler(method, params)
	}
}

func (t *Transport) reportProtocolError(err error) {
	t.mu.Lock()
	fn := t.onError
	t.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}
