package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/praxisworks/advisor/internal/config"
	"github.com/praxisworks/advisor/internal/health"
	"github.com/praxisworks/advisor/internal/httpapi"
	"github.com/praxisworks/advisor/internal/knowledge"
	"github.com/praxisworks/advisor/internal/tracing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if err := tracing.Initialize(cfg.Tracing, logger); err != nil {
		logger.Warn("Tracing initialization failed, continuing without it", zap.Error(err))
	}

	source := knowledge.NewSource(logger)
	if cfg.Corpus.Path != "" {
		if err := source.LoadFile(cfg.Corpus.Path); err != nil {
			logger.Warn("Corpus load failed, using built-in corpus",
				zap.String("path", cfg.Corpus.Path), zap.Error(err))
		} else if cfg.Corpus.Watch {
			if err := source.Watch(ctx, cfg.Corpus.Path); err != nil {
				logger.Warn("Corpus watch failed", zap.Error(err))
			}
		}
	}

	hm := health.NewManager(logger)
	hm.Register(health.NewBackendChecker(cfg.Backend.URL))
	hm.Register(health.NewCorpusChecker(source))

	mux := http.NewServeMux()
	health.NewHTTPHandler(hm, logger).RegisterRoutes(mux)
	httpapi.NewAnalyzeHandler(cfg.Backend, source, logger).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // a run can spend minutes retrying the backend
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Advisor HTTP server listening",
			zap.Int("port", cfg.Server.Port),
			zap.String("backend_url", cfg.Backend.URL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
