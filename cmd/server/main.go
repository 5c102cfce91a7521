package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/chesscompare/internal/api"
	"github.com/vytor/chesscompare/internal/cache"
	"github.com/vytor/chesscompare/internal/chesscom"
	"github.com/vytor/chesscompare/internal/config"
	"github.com/vytor/chesscompare/internal/db"
	"github.com/vytor/chesscompare/internal/logger"
	"github.com/vytor/chesscompare/internal/services"
	"github.com/vytor/chesscompare/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("Chess Compare Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("chesscom_base_url=%s", cfg.ChessComBaseURL)
	log.Debug("http_timeout=%v", cfg.HTTPTimeout())
	log.Debug("archive_limit=%d", cfg.ArchiveLimit)
	log.Debug("max_concurrent_archive=%d", cfg.MaxConcurrentArchive)
	log.Debug("player_cache_ttl=%v", cfg.PlayerCacheTTL())
	log.Debug("session_ttl=%v", cfg.SessionTTL())
	log.Debug("warm_worker_count=%d", cfg.WarmWorkerCount)
	log.Debug("warm_queue_size=%d", cfg.WarmQueueSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open database
	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	if n, err := cache.Purge(ctx, database.DB, cfg.PlayerCacheTTL(), time.Now()); err != nil {
		log.Warn("failed to purge expired player lists: %v", err)
	} else if n > 0 {
		log.Info("purged %d expired player lists", n)
	}

	client := chesscom.New(
		chesscom.WithBaseURL(cfg.ChessComBaseURL),
		chesscom.WithUserAgent(cfg.UserAgent),
		chesscom.WithTimeout(cfg.HTTPTimeout()),
	)

	// Initialize services
	playerService := services.NewPlayerService(client)
	historyService := services.NewHistoryService(client, services.HistoryConfig{
		ArchiveLimit:  cfg.ArchiveLimit,
		MaxConcurrent: cfg.MaxConcurrentArchive,
	})
	opponentService := services.NewOpponentService(client, cache.NewSQLiteCache(database.DB, cfg.PlayerCacheTTL()))
	comparisonService := services.NewComparisonService(playerService, opponentService)

	warmPool := worker.NewPool(cfg.WarmWorkerCount, cfg.WarmQueueSize)
	warmPool.Start(ctx)

	srv := &api.Server{
		Players:     playerService,
		Comparisons: comparisonService,
		Sessions:    api.NewSessionStore(playerService, historyService, cfg.SessionTTL()),
		WarmPool:    warmPool,
		DB:          database,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: api.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping warm pool")
	cancel()
	warmPool.Stop()

	log.Info("===========================================")
	log.Info("Chess Compare Server Stopped")
	log.Info("===========================================")
}
