package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gradpath/internal/app"
	"gradpath/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync() //nolint:errcheck

	aiConfig := config.DefaultAIConfig()
	logger.Info("AI config",
		zap.String("geminiModel", aiConfig.GeminiModel),
		zap.Duration("timeout", aiConfig.Timeout),
		zap.Bool("evaluatorLive", aiConfig.IsEvaluatorLive()),
		zap.Bool("generatorLive", aiConfig.IsGeneratorLive()),
	)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, aiConfig, logger)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := a.Close(shutdownCtx); err != nil {
		logger.Error("close", zap.Error(err))
	}

	logger.Info("server exited")
}
