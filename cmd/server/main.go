package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/moneymind/backend/internal/assist"
	"github.com/moneymind/backend/internal/config"
	"github.com/moneymind/backend/internal/server"
	"github.com/moneymind/backend/internal/service"
	"github.com/moneymind/backend/internal/store"
	"github.com/moneymind/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st store.Store
	switch cfg.StoreBackend {
	case "memory":
		zlog.Info("using in-memory store")
		st = store.NewMemoryStore()
	case "sqlite":
		sqliteStore, err := store.NewSQLiteStore(cfg.SQLitePath, zlog)
		if err != nil {
			zlog.Fatal("init sqlite store", zap.Error(err))
		}
		defer sqliteStore.Close()
		zlog.Info("using sqlite store", zap.String("path", cfg.SQLitePath))
		st = sqliteStore
	default:
		fileStore, err := store.NewFileStore(cfg.DataFile, zlog)
		if err != nil {
			zlog.Fatal("init file store", zap.Error(err))
		}
		zlog.Info("using file store", zap.String("path", cfg.DataFile))
		st = fileStore
	}

	finance, err := service.NewFinanceService(ctx, st, zlog)
	if err != nil {
		zlog.Fatal("init finance service", zap.Error(err))
	}

	if cfg.GeminiAPIKey == "" {
		zlog.Warn("GEMINI_API_KEY not set; AI-assisted features will degrade to defaults")
	}
	gemini := assist.NewGeminiClient(cfg.GeminiAPIKey)
	if cfg.GeminiBaseURL != "" {
		gemini.WithBaseURL(cfg.GeminiBaseURL)
	}
	pipeline := assist.NewPipeline(gemini, zlog)

	sessions := assist.NewSessionRegistry(10 * time.Minute)
	defer sessions.Stop()

	api := server.New(finance, pipeline, sessions, zlog)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Origins(),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type"},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(api.Handler()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second, // collaborator calls can be slow
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zlog.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zlog.Fatal("server error", zap.Error(err))
	}
	zlog.Info("server stopped")
}
