package lsp

// Wire types for the subset of the protocol the editor consumes.
// Positions are (line, UTF-16 column) pairs as language servers expect.

// Position is a zero-based line and UTF-16 character offset.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a half-open [start, end) span of Positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// TextDocumentItem opens a document on the server.
type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int32  `json:"version"`
	Text       string `json:"text"`
}

// TextDocumentIdentifier names an open document.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// VersionedTextDocumentIdentifier names a document at a version.
type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int32  `json:"version"`
}

// InitializeParams is the initialize request payload.
type InitializeParams struct {
	ProcessID    int                `json:"processId"`
	RootURI      string             `json:"rootUri,omitempty"`
	Capabilities ClientCapabilities `json:"capabilities"`
}

// ClientCapabilities advertises what the editor supports.
type ClientCapabilities struct {
	TextDocument TextDocumentClientCapabilities `json:"textDocument"`
}

// TextDocumentClientCapabilities covers the document features we use.
type TextDocumentClientCapabilities struct {
	Synchronization SyncCapabilities       `json:"synchronization"`
	Completion      CompletionCapabilities `json:"completion"`
}

// SyncCapabilities signals incremental change support.
type SyncCapabilities struct {
	DynamicRegistration bool `json:"dynamicRegistration"`
}

// CompletionCapabilities signals completion support.
type CompletionCapabilities struct {
	ContextSupport bool `json:"contextSupport"`
}

// InitializeResult is the server's handshake reply.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
}

// ServerCapabilities is the subset of server capabilities we inspect.
type ServerCapabilities struct {
	TextDocumentSync   any  `json:"textDocumentSync,omitempty"`
	CompletionProvider any  `json:"completionProvider,omitempty"`
	HoverProvider      bool `json:"hoverProvider,omitempty"`
}

// DidOpenTextDocumentParams is the didOpen notification payload.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

// DidChangeTextDocumentParams carries incremental document deltas.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// TextDocumentContentChangeEvent is one incremental change. A nil
// Range means full-document replacement.
type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

// DidCloseTextDocumentParams is the didClose notification payload.
type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// CompletionParams requests completions at a position.
type CompletionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// CompletionList is a completion response.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// CompletionItem is one completion candidate.
type CompletionItem struct {
	Label         string `json:"label"`
	Kind          int    `json:"kind,omitempty"`
	Detail        string `json:"detail,omitempty"`
	InsertText    string `json:"insertText,omitempty"`
	SortText      string `json:"sortText,omitempty"`
	Documentation any    `json:"documentation,omitempty"`
}

// PublishDiagnosticsParams is the server-pushed diagnostics payload.
type PublishDiagnosticsParams struct {
	URI         string           `json:"uri"`
	Version     int32            `json:"version,omitempty"`
	Diagnostics []WireDiagnostic `json:"diagnostics"`
}

// WireDiagnostic is a diagnostic as the server reports it.
type WireDiagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity,omitempty"`
	Code     any    `json:"code,omitempty"`
	Source   string `json:"source,omitempty"`
	Message  string `json:"message"`
}
