package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomerlv/torbook/internal/devserver"
	"github.com/tomerlv/torbook/pkg/config"
	"github.com/tomerlv/torbook/pkg/logger"
)

func main() {
	cfg := config.Load()

	server := devserver.New(cfg.Dev)

	srv := &http.Server{
		Addr:         ":" + cfg.Dev.Port,
		Handler:      server.Router(),
		ReadTimeout:  cfg.Dev.ReadTimeout,
		WriteTimeout: cfg.Dev.WriteTimeout,
		IdleTimeout:  cfg.Dev.IdleTimeout,
	}

	go func() {
		logger.Info("dev backend listening", "port", cfg.Dev.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
