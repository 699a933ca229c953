package lsp

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap"
)

// ServerConfig describes how to launch a language server process.
type ServerConfig struct {
	Command string
	Args    []string
}

// Server is a spawned language server child process speaking the
// protocol over its stdio.
type Server struct {
	cmd       *exec.Cmd
	transport *Transport
	logger    *zap.Logger
}

// StartServer launches the process and wires a transport to its stdio.
// The transport's read loop is already running when this returns.
func StartServer(ctx context.Context, cfg ServerConfig, logger *zap.Logger) (*Server, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("lsp: empty server command")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("lsp: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("lsp: stdout pipe: %w", err)
	}
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("lsp: start %s: %w", cfg.Command, err)
	}
	logger.Info("language server started",
		zap.String("command", cfg.Command),
		zap.Int("pid", cmd.Process.Pid))

	t := NewTransport(stdout, stdin, stdin, WithTransportLogger(logger))
	t.Start(ctx)

	return &Server{cmd: cmd, transport: t, logger: logger}, nil
}

// Transport returns the server's transport.
func (s *Server) Transport() *Transport {
	return s.transport
}

// Stop closes the transport and reaps the process.
func (s *Server) Stop() error {
	if err := s.transport.Close(); err != nil {
		s.logger.Warn("transport close failed", zap.Error(err))
	}
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("lsp: server exited: %w", err)
	}
	return nil
}
