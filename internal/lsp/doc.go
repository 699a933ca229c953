// Package lsp implements the language server bridge.
//
// A Transport frames JSON-RPC 2.0 messages with Content-Length headers
// over a byte stream, typically a child process's stdio. The Bridge
// layers the protocol state machine on top: Uninitialized through
// Initializing to Ready, then ShuttingDown and Closed. Only Ready may
// send document changes and feature requests; work arriving during
// Initializing queues and flushes in order on Ready.
//
// Every outbound request carries a correlation id and the buffer
// version captured at send time. Responses and pushed diagnostics are
// remapped forward through the edit groups committed since that
// version; positions that can no longer be placed are discarded as
// stale rather than applied. A server protocol error closes the bridge
// and surfaces a notice, never an editor failure: editing does not
// depend on server liveness.
package lsp
