package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/reviewguard/reviewguard-go/pkg"
	"github.com/reviewguard/reviewguard-go/services/detector-api/app"
	"go.uber.org/zap"
)

func main() {
	// Load .env if present; real deployments set env vars directly.
	_ = godotenv.Load()

	pkg.InitLogger()
	logger := pkg.Logger
	defer logger.Sync()

	srv, err := app.NewApp(logger)
	if err != nil {
		logger.Fatal("failed_to_initialize", zap.Error(err))
	}

	// Start the server in a goroutine to allow signal handling
	go func() {
		logger.Info("detector_api_started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server_error", zap.Error(err))
		}
	}()

	// Handle shutdown signals (SIGINT, SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting_down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown_error", zap.Error(err))
	}
}
