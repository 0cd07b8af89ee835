package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rfoley/lodestar/internal/database"
	"github.com/rfoley/lodestar/internal/logging"
	"github.com/rfoley/lodestar/internal/push"
	"github.com/rfoley/lodestar/internal/server"
	"github.com/rfoley/lodestar/internal/task"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("LODESTAR_LOG_LEVEL"))

	port := os.Getenv("LODESTAR_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("LODESTAR_DB_PATH")
	if dbPath == "" {
		dbPath = "lodestar.db"
	}

	taskAPIURL := os.Getenv("LODESTAR_TASK_API_URL")
	if taskAPIURL == "" {
		taskAPIURL = "http://localhost:3000"
	}

	pushCfg := push.Config{
		VAPIDPublicKey:  os.Getenv("LODESTAR_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("LODESTAR_VAPID_PRIVATE_KEY"),
	}
	if pushCfg.VAPIDPublicKey == "" || pushCfg.VAPIDPrivateKey == "" {
		logger.Warn("VAPID keys not configured; native push notifications disabled")
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, task.NewClient(taskAPIURL), pushCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.Scheduler().Start(ctx)
	defer srv.Scheduler().Stop()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("lodestar running", "addr", fmt.Sprintf("http://localhost:%s", port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
