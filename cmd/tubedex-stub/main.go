package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kiran-cloud/tubedex/internal/config"
	logpkg "github.com/kiran-cloud/tubedex/internal/logger"
	"github.com/kiran-cloud/tubedex/internal/stub"
	"github.com/kiran-cloud/tubedex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tubedex stub backend",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("port", cfg.Stub.Port),
	)

	corpus := stub.NewCorpus()

	var summarizer stub.Summarizer
	if cfg.Stub.Summary.APIKey != "" {
		summarizer = stub.NewOpenAISummarizer(stub.OpenAIConfig{
			APIKey:  cfg.Stub.Summary.APIKey,
			BaseURL: cfg.Stub.Summary.BaseURL,
			Model:   cfg.Stub.Summary.Model,
			Logger:  logger,
		})
		logger.Info("Using OpenAI-compatible summarizer", zap.String("model", cfg.Stub.Summary.Model))
	} else {
		summarizer = &stub.ExtractiveSummarizer{MaxSentences: 3}
		logger.Info("No API key configured, using extractive summarizer")
	}

	router := stub.NewServer(corpus, summarizer, logger).Router()
	router.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Stub.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Stub.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Stub.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.Stub.ShutdownSec)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Stub backend stopped")
}
