package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mfigueira/aventuria/internal/config"
	"github.com/mfigueira/aventuria/internal/handlers"
	"github.com/mfigueira/aventuria/internal/logger"
	"github.com/mfigueira/aventuria/internal/services"
	queueSvc "github.com/mfigueira/aventuria/internal/services/queue"
	"github.com/mfigueira/aventuria/internal/storage"
	"github.com/mfigueira/aventuria/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("starting Aventuria API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"oracle_provider", cfg.OracleProvider,
		"oracle_model", cfg.OracleModel)

	var oracle services.OracleService
	switch strings.ToLower(cfg.OracleProvider) {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("ANTHROPIC_API_KEY is required for the anthropic provider")
			os.Exit(1)
		}
		oracle = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.OracleModel, log)
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Error("OPENAI_API_KEY is required for the openai provider")
			os.Exit(1)
		}
		oracle = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OracleModel, log)
	case "mock":
		oracle = services.NewMockOracle()
	default:
		log.Error("invalid oracle provider", "provider", cfg.OracleProvider,
			"supported", []string{"anthropic", "openai", "mock"})
		os.Exit(1)
	}

	store, err := storage.NewRedisStorage(cfg.RedisURL, log)
	if err != nil {
		log.Error("failed to create storage", "error", err)
		os.Exit(1)
	}
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("storage connection established")

	initCtx, initCancel := context.WithTimeout(context.Background(), time.Minute)
	defer initCancel()
	if err := oracle.InitModel(initCtx, cfg.OracleModel); err != nil {
		log.Error("failed to initialize oracle model", "error", err, "model", cfg.OracleModel)
		os.Exit(1)
	}

	queueClient := queueSvc.NewClientFromRedis(store.Client(), log)
	turnQueue := queueSvc.NewTurnQueue(queueClient)
	suggestions := queueSvc.NewSuggestionQueue(queueClient)
	sessionLock := queueSvc.NewSessionLock(queueClient)

	processor := worker.NewTurnProcessor(oracle, nil, log).
		WithHistoryLimit(cfg.HistoryLimit).
		WithOracleTimeout(time.Duration(cfg.OracleTimeoutSeconds) * time.Second)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, oracle, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(store, oracle, processor, turnQueue, suggestions, sessionLock, log)
	mux.Handle("/v1/session", sessionHandler)
	mux.Handle("/v1/session/", sessionHandler)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("server is shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("error closing storage", "error", err)
	}
	log.Info("server exited")
}
