package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BorisDmv/blog-posts-api/internal/config"
	"github.com/BorisDmv/blog-posts-api/internal/db"
	"github.com/BorisDmv/blog-posts-api/internal/logging"
	"github.com/BorisDmv/blog-posts-api/internal/server"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DatabaseURL == "" {
		logger.Warn("MONGODB_URI is not set, database requests will fail until it is configured")
	}

	// Connects lazily on the first request that needs the database.
	manager := db.NewManager(cfg.DatabaseURL, db.NewDialer(cfg.DatabaseName), logger)

	router, stopLimiter := server.NewRouter(cfg, manager, logger)
	defer stopLimiter()

	srv := server.New(cfg, router)

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	if err := manager.Close(shutdownCtx); err != nil {
		logger.Error("database close error", zap.Error(err))
	}
}
