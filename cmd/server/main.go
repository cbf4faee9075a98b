package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bbqjam05/pwd-week6-server/internal/app"
	"github.com/bbqjam05/pwd-week6-server/internal/config"
	"github.com/bbqjam05/pwd-week6-server/internal/logger"
)

func main() {
	logger.Init("info")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", map[string]any{
			"error": err.Error(),
		})
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", map[string]any{
			"error": err.Error(),
		})
	}

	go func() {
		if err := application.Run(); err != nil {
			logger.Fatal("http server failed", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	logger.Info("auth server started", map[string]any{
		"port": cfg.AppPort,
	})

	<-ctx.Done()

	logger.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", map[string]any{
			"error": err.Error(),
		})
	}

	logger.Info("auth server stopped cleanly", nil)
}
