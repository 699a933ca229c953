// Package main is the entry point for the mako editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/makoedit/mako/internal/config"
	"github.com/makoedit/mako/internal/logger"
	"github.com/makoedit/mako/internal/lsp"
	"github.com/makoedit/mako/internal/session"
	"github.com/makoedit/mako/internal/tui"
	"github.com/makoedit/mako/internal/workspace"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		debug       bool
		noLSP       bool
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&debug, "d", false, "Enable debug logging (shorthand)")
	flag.BoolVar(&noLSP, "no-lsp", false, "Do not start a language server")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Mako - modal terminal editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: mako [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("mako %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	path := flag.Arg(0)
	sess, err := openSession(path, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	var bridge *lsp.Bridge
	var server *lsp.Server
	if !noLSP && path != "" {
		bridge, server = startLanguageServer(ctx, cfg, sess, path, log)
	}
	defer func() {
		if bridge != nil {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := bridge.Shutdown(shutdownCtx); err != nil {
				log.Warn("bridge shutdown", zap.Error(err))
			}
		}
		if server != nil {
			server.Stop()
		}
	}()

	ui, err := tui.New(sess, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		return 1
	}
	defer ui.Close()

	log.Info("mako started",
		zap.String("version", version),
		zap.String("file", path))

	if err := ui.Run(ctx); err != nil && err != context.Canceled {
		log.Error("event loop", zap.Error(err))
		return 1
	}
	return 0
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func openSession(path string, cfg config.Config) (*session.Session, error) {
	opts := []session.Option{
		session.WithTabWidth(cfg.Editor.TabWidth),
		session.WithHistoryLimit(cfg.Editor.HistoryLimit),
		session.WithCoalesceMS(cfg.Editor.UndoCoalesceMS),
		session.WithParseBudget(cfg.Editor.ParseBudgetLine),
	}
	if path == "" {
		return session.New(opts...), nil
	}
	return session.Open(path, opts...)
}

// startLanguageServer spawns the configured server for the file's
// language and runs the handshake off the event loop. didOpen queues
// inside the bridge until the handshake completes.
func startLanguageServer(ctx context.Context, cfg config.Config, sess *session.Session, path string, log *zap.Logger) (*lsp.Bridge, *lsp.Server) {
	lang := sess.Language().Name
	srvCfg, ok := cfg.LSP.Servers[lang]
	if !ok || srvCfg.Command == "" {
		log.Debug("no language server configured", zap.String("language", lang))
		return nil, nil
	}

	server, err := lsp.StartServer(ctx, lsp.ServerConfig{
		Command: srvCfg.Command,
		Args:    srvCfg.Args,
	}, log)
	if err != nil {
		log.Warn("language server failed to start",
			zap.String("command", srvCfg.Command), zap.Error(err))
		return nil, nil
	}

	bridge := lsp.NewBridge(server.Transport(),
		lsp.WithLogger(log),
		lsp.WithNotice(sess.SetNotice))
	sess.AttachBridge(bridge)

	rootURI := workspace.URI(workspace.FindRoot(path))
	go func() {
		if err := bridge.Initialize(ctx, rootURI); err != nil {
			log.Warn("language server handshake failed", zap.Error(err))
			return
		}
		snap := sess.Buffer().Snapshot()
		if err := bridge.DidOpen(workspace.URI(path), lang, snap); err != nil {
			log.Warn("didOpen not delivered", zap.Error(err))
		}
	}()

	return bridge, server
}
