package lsp

import (
	"errors"
	"fmt"
)

// Common errors for bridge operations.
var (
	// ErrShutdown means the transport is closed.
	ErrShutdown = errors.New("lsp: transport closed")

	// ErrNotReady means the bridge has not completed the initialize
	// handshake and the operation cannot be queued.
	ErrNotReady = errors.New("lsp: server not ready")

	// ErrStaleResponse means a response's positions could not be
	// remapped into current buffer bounds and the response was dropped.
	ErrStaleResponse = errors.New("lsp: stale response discarded")

	// ErrSuperseded means a newer request of the same kind replaced
	// this one before its response arrived.
	ErrSuperseded = errors.New("lsp: request superseded")

	// ErrProtocol means the server sent a malformed or unexpected
	// message. The bridge transitions toward Closed.
	ErrProtocol = errors.New("lsp: protocol error")
)

// RPCError is a JSON-RPC error object from the server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("lsp: server error %d: %s", e.Code, e.Message)
}
