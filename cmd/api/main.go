package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobarin/echoverse/internal/api"
	"github.com/bobarin/echoverse/internal/config"
	"github.com/bobarin/echoverse/internal/logger"
	"github.com/bobarin/echoverse/internal/pipeline"
	"github.com/bobarin/echoverse/internal/services"
	"github.com/bobarin/echoverse/internal/session"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("echoverse exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithProduction(cfg.IsProduction()),
		logger.WithLogFile(cfg.LogFile),
	)
	slog.SetDefault(log)
	slog.Info("Starting EchoVerse API...", "env", cfg.AppEnv)

	// Initialize providers
	rewriter, err := services.NewRewriteService(cfg)
	if err != nil {
		return err
	}
	tts, err := services.NewTTSService(cfg)
	if err != nil {
		return err
	}
	slog.Info("providers ready", "rewrite", cfg.RewriteProvider, "tts", cfg.TTSProvider)

	// Session store
	var store session.Store
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		rs, err := session.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return err
		}
		defer rs.Close()
		store = rs
		slog.Info("Connected to Redis session store", "ttl", cfg.SessionTTL)
	default:
		store = session.NewMemoryStore(cfg.SessionTTL)
		slog.Info("Using in-memory session store", "ttl", cfg.SessionTTL)
	}

	handler := api.NewHandler(pipeline.New(rewriter, tts), store, cfg.MaxUploadBytes)
	router := api.NewRouter(handler, api.RouterConfig{
		BackendAPIKey:      cfg.BackendAPIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
		SecureCookies:      cfg.SecureCookies,
	})

	if cfg.BackendAPIKey != "" {
		slog.Info("API key authentication enabled")
	} else {
		slog.Warn("No BACKEND_API_KEY set, API is unprotected (dev mode)")
	}

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("API server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Server exited")
	return nil
}
