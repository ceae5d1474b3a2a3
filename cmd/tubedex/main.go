package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kiran-cloud/tubedex/internal/backend"
	"github.com/kiran-cloud/tubedex/internal/config"
	logpkg "github.com/kiran-cloud/tubedex/internal/logger"
	"github.com/kiran-cloud/tubedex/internal/tui"
	"github.com/kiran-cloud/tubedex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// The terminal UI owns stdout, so logs go to a file.
	logger, err := logpkg.NewFileLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tubedex client",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Int("top_k", cfg.Search.TopK),
	)

	client, err := backend.New(cfg.Backend.BaseURL,
		backend.WithLogger(logger),
		backend.WithMetrics(prometheus.DefaultRegisterer),
	)
	if err != nil {
		logger.Fatal("Failed to create backend client", zap.Error(err))
	}

	// Optional prometheus exposure for the client's own request metrics.
	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	// Tearing down the program cancels every in-flight backend call.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := tui.New(ctx, client, cfg.Search.TopK, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger.Info("Client stopped")
}
