package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/makoedit/mako/internal/engine/buffer"
)

// State is the bridge's position in the protocol lifecycle.
type State uint8

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateShuttingDown
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting-down"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// RequestKind categorizes a pending request for staleness handling.
type RequestKind uint8

const (
	RequestOther RequestKind = iota
	RequestCompletion
)

// PendingRequest tracks one in-flight request: its correlation id and
// the buffer version captured when it was sent. It is created on send
// and discarded once resolved or discarded as stale.
type PendingRequest struct {
	ID      int64
	Kind    RequestKind
	Version buffer.Version
}

// CompletionResult is a completion response with its request offset
// remapped onto the current buffer.
type CompletionResult struct {
	Items  []CompletionItem
	Offset buffer.ByteOffset
}

// maxLogEntries bounds the committed-edit log. Positions older than
// the window cannot be remapped and read as stale.
const maxLogEntries = 512

// maxSnapshots bounds how many per-version snapshots are retained for
// converting late-arriving server positions.
const maxSnapshots = 8

// Bridge drives the protocol state machine for one document on one
// server connection.
type Bridge struct {
	mu sync.Mutex

	transport *Transport
	logger    *zap.Logger
	notice    func(string)

	state       State
	readyCh     chan struct{}
	readyClosed bool
	queue       []func()

	uri        string
	languageID string

	editLog   []committedGroup
	snapshots map[buffer.Version]*buffer.Snapshot
	snapOrder []buffer.Version

	pending          map[int64]*PendingRequest
	latestCompletion int64

	diags *diagSet
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithLogger sets the bridge logger.
func WithLogger(l *zap.Logger) BridgeOption {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithNotice sets the callback for user-visible, non-fatal notices
// such as a server disconnect.
func WithNotice(fn func(string)) BridgeOption {
	return func(b *Bridge) {
		b.notice = fn
	}
}

// NewBridge creates a bridge over the given transport.
func NewBridge(t *Transport, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		transport: t,
		logger:    zap.NewNop(),
		state:     StateUninitialized,
		readyCh:   make(chan struct{}),
		snapshots: make(map[buffer.Version]*buffer.Snapshot),
		pending:   make(map[int64]*PendingRequest),
	}
	for _, opt := range opts {
		opt(b)
	}

	t.OnNotification("textDocument/publishDiagnostics", b.handlePublishDiagnostics)
	t.OnProtocolError(b.handleProtocolError)
	return b
}

// State returns the current lifecycle state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// PendingCount returns the number of unresolved requests.
func (b *Bridge) PendingCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Initialize performs the initialize/initialized handshake. On success
// the bridge enters Ready and flushes work queued while Initializing,
// in the order it was submitted.
func (b *Bridge) Initialize(ctx context.Context, rootURI string) error {
	b.mu.Lock()
	if b.state != StateUninitialized {
		state := b.state
		b.mu.Unlock()
		return fmt.Errorf("lsp: initialize in state %s", state)
	}
	b.state = StateInitializing
	b.mu.Unlock()

	id := b.transport.NextID()
	b.trackRequest(id, RequestOther, 0)
	raw, err := b.transport.Call(ctx, id, "initialize", InitializeParams{
		ProcessID: os.Getpid(),
		RootURI:   rootURI,
	})
	b.resolveRequest(id)
	if err != nil {
		b.closeWithError(fmt.Errorf("initialize: %w", err))
		return err
	}

	var result InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		err = fmt.Errorf("%w: bad initialize result: %v", ErrProtocol, err)
		b.closeWithError(err)
		return err
	}

	if err := b.transport.Notify("initialized", struct{}{}); err != nil {
		b.closeWithError(err)
		return err
	}

	// Flush queued notifications before signalling readiness, so a
	// request parked in awaitReady cannot jump ahead of the didOpen
	// or didChange backlog on the wire.
	b.mu.Lock()
	for len(b.queue) > 0 && b.state == StateInitializing {
		queued := b.queue
		b.queue = nil
		b.mu.Unlock()
		for _, op := range queued {
			op()
		}
		b.mu.Lock()
	}
	if b.state != StateInitializing {
		b.mu.Unlock()
		return ErrShutdown
	}
	b.state = StateReady
	b.signalReadyLocked()
	b.mu.Unlock()

	b.logger.Info("language server ready", zap.String("root", rootURI))
	return nil
}

// signalReadyLocked wakes awaitReady waiters exactly once. Every
// transition out of Initializing must pass through here, whether the
// handshake succeeded or not.
func (b *Bridge) signalReadyLocked() {
	if !b.readyClosed {
		b.readyClosed = true
		close(b.readyCh)
	}
}

// DidOpen announces the document to the server. During Initializing
// the notification queues; before that the bridge is unusable.
func (b *Bridge) DidOpen(uri, languageID string, snap *buffer.Snapshot) error {
	b.mu.Lock()
	b.uri = uri
	b.languageID = languageID
	b.storeSnapshotLocked(snap)
	state := b.state
	if state == StateInitializing {
		b.queue = append(b.queue, func() { b.sendDidOpen(uri, languageID, snap) })
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	if state != StateReady {
		return ErrNotReady
	}
	return b.sendDidOpen(uri, languageID, snap)
}

func (b *Bridge) sendDidOpen(uri, languageID string, snap *buffer.Snapshot) error {
	return b.transport.Notify("textDocument/didOpen", DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{
			URI:        uri,
			LanguageID: languageID,
			Version:    int32(snap.Version()),
			Text:       snap.Text(),
		},
	})
}

// DidChange records a committed edit group and forwards it as an
// incremental delta. pre is the snapshot the group's ranges refer to,
// post the snapshot after applying it. Changes are sent in commit
// order and never coalesced across versions; the edit log always
// records the group even when the server is not Ready, because
// remapping does not depend on server liveness.
func (b *Bridge) DidChange(pre, post *buffer.Snapshot, group buffer.EditGroup) error {
	changes := ChangesForGroup(pre, group)

	b.mu.Lock()
	logged := make(buffer.EditGroup, len(group))
	copy(logged, group)
	b.editLog = append(b.editLog, committedGroup{version: post.Version(), group: logged})
	if len(b.editLog) > maxLogEntries {
		b.editLog = b.editLog[len(b.editLog)-maxLogEntries:]
	}
	b.storeSnapshotLocked(post)

	params := DidChangeTextDocumentParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: b.uri, Version: int32(post.Version())},
		ContentChanges: changes,
	}
	state := b.state
	if state == StateInitializing {
		b.queue = append(b.queue, func() {
			if err := b.transport.Notify("textDocument/didChange", params); err != nil {
				b.logger.Warn("queued didChange failed", zap.Error(err))
			}
		})
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	if state != StateReady {
		return ErrNotReady
	}
	return b.transport.Notify("textDocument/didChange", params)
}

// Completion requests completions for the cursor at offset in snap.
// A newer completion request supersedes this one; a response whose
// position cannot be remapped onto the current buffer is discarded as
// stale. The returned offset is the cursor remapped through every
// group committed since the request was sent.
func (b *Bridge) Completion(ctx context.Context, offset buffer.ByteOffset, snap *buffer.Snapshot) (*CompletionResult, error) {
	if err := b.awaitReady(ctx); err != nil {
		return nil, err
	}

	version := snap.Version()
	id := b.transport.NextID()

	b.mu.Lock()
	b.pending[id] = &PendingRequest{ID: id, Kind: RequestCompletion, Version: version}
	b.latestCompletion = id
	uri := b.uri
	b.mu.Unlock()

	raw, err := b.transport.Call(ctx, id, "textDocument/completion", CompletionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     ToPosition(snap, offset),
	})

	b.mu.Lock()
	delete(b.pending, id)
	superseded := b.latestCompletion != id
	log := make([]committedGroup, len(b.editLog))
	copy(log, b.editLog)
	b.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if superseded {
		return nil, ErrSuperseded
	}

	var list CompletionList
	if err := json.Unmarshal(raw, &list); err != nil {
		var items []CompletionItem
		if err2 := json.Unmarshal(raw, &items); err2 != nil {
			return nil, fmt.Errorf("%w: bad completion result: %v", ErrProtocol, err)
		}
		list.Items = items
	}

	mapped, ok := remapOffset(offset, log, version)
	if !ok {
		b.logger.Debug("completion response discarded as stale",
			zap.Int64("id", id),
			zap.Uint64("sent_version", uint64(version)))
		return nil, ErrStaleResponse
	}
	return &CompletionResult{Items: list.Items, Offset: mapped}, nil
}

// Diagnostics returns the last published diagnostics remapped onto the
// current buffer. Entries whose positions fell inside a later edit are
// dropped as stale. The stored set survives buffer changes until a
// fresh publish replaces it.
func (b *Bridge) Diagnostics() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.diags == nil {
		return nil
	}

	out := make([]Diagnostic, 0, len(b.diags.items))
	for _, d := range b.diags.items {
		r, ok := remapRange(d.Range, b.editLog, b.diags.version)
		if !ok {
			continue
		}
		d.Range = r
		out = append(out, d)
	}
	return out
}

// Shutdown runs the shutdown/exit sequence and closes the transport.
func (b *Bridge) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	if b.state == StateClosed || b.state == StateShuttingDown {
		b.mu.Unlock()
		return nil
	}
	b.state = StateShuttingDown
	b.signalReadyLocked()
	b.mu.Unlock()

	id := b.transport.NextID()
	if _, err := b.transport.Call(ctx, id, "shutdown", nil); err != nil {
		b.logger.Warn("shutdown request failed", zap.Error(err))
	}
	if err := b.transport.Notify("exit", nil); err != nil {
		b.logger.Warn("exit notification failed", zap.Error(err))
	}

	b.mu.Lock()
	b.state = StateClosed
	b.mu.Unlock()
	return b.transport.Close()
}

// awaitReady blocks while the handshake is in flight. Feature requests
// issued during Initializing wait and run once queued work flushed.
func (b *Bridge) awaitReady(ctx context.Context) error {
	b.mu.Lock()
	switch b.state {
	case StateReady:
		b.mu.Unlock()
		return nil
	case StateInitializing:
		ch := b.readyCh
		b.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
		b.mu.Lock()
		ready := b.state == StateReady
		b.mu.Unlock()
		if !ready {
			return ErrNotReady
		}
		return nil
	default:
		b.mu.Unlock()
		return ErrNotReady
	}
}

// handlePublishDiagnostics converts a server push into offsets against
// the snapshot of the version it was computed for and stores it,
// superseding any previous set.
func (b *Bridge) handlePublishDiagnostics(_ string, params json.RawMessage) {
	var p PublishDiagnosticsParams
	if err := json.Unmarshal(params, &p); err != nil {
		b.handleProtocolError(fmt.Errorf("%w: bad publishDiagnostics: %v", ErrProtocol, err))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	version := buffer.Version(p.Version)
	snap := b.snapshots[version]
	if p.Version == 0 {
		// Untagged push; pin it to the newest state the server has seen.
		if snap = b.latestSnapshotLocked(); snap != nil {
			version = snap.Version()
		}
	}
	if snap == nil {
		b.logger.Debug("diagnostics for unknown version dropped",
			zap.Int32("version", p.Version))
		return
	}

	items := make([]Diagnostic, 0, len(p.Diagnostics))
	for _, wd := range p.Diagnostics {
		items = append(items, Diagnostic{
			Range: buffer.Range{
				Start: FromPosition(snap, wd.Range.Start),
				End:   FromPosition(snap, wd.Range.End),
			},
			Severity: Severity(wd.Severity),
			Source:   wd.Source,
			Message:  wd.Message,
		})
	}
	b.diags = &diagSet{version: version, items: items}
}

// handleProtocolError closes the bridge and surfaces a notice. The
// editing core is unaffected.
func (b *Bridge) handleProtocolError(err error) {
	b.mu.Lock()
	if b.state == StateClosed {
		b.mu.Unlock()
		return
	}
	b.state = StateClosed
	b.signalReadyLocked()
	notice := b.notice
	b.mu.Unlock()

	b.logger.Warn("language server protocol error", zap.Error(err))
	if notice != nil {
		notice("language server disconnected: " + err.Error())
	}
	b.transport.Close()
}

// closeWithError abandons the connection after a failed handshake.
func (b *Bridge) closeWithError(err error) {
	b.mu.Lock()
	if b.state == StateClosed {
		b.mu.Unlock()
		return
	}
	b.state = StateClosed
	b.signalReadyLocked()
	b.mu.Unlock()

	b.logger.Warn("language server connection abandoned", zap.Error(err))
	b.transport.Close()
}

func (b *Bridge) trackRequest(id int64, kind RequestKind, version buffer.Version) {
	b.mu.Lock()
	b.pending[id] = &PendingRequest{ID: id, Kind: kind, Version: version}
	b.mu.Unlock()
}

func (b *Bridge) resolveRequest(id int64) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

func (b *Bridge) storeSnapshotLocked(snap *buffer.Snapshot) {
	v := snap.Version()
	if _, ok := b.snapshots[v]; !ok {
		b.snapOrder = append(b.snapOrder, v)
	}
	b.snapshots[v] = snap
	for len(b.snapOrder) > maxSnapshots {
		oldest := b.snapOrder[0]
		b.snapOrder = b.snapOrder[1:]
		delete(b.snapshots, oldest)
	}
}

func (b *Bridge) latestSnapshotLocked() *buffer.Snapshot {
	if len(b.snapOrder) == 0 {
		return nil
	}
	return b.snapshots[b.snapOrder[len(b.snapOrder)-1]]
}
