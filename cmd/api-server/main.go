// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"nextgen-api/internal/common/config"
	"nextgen-api/internal/common/logger"
	"nextgen-api/internal/dispatch"
	"nextgen-api/internal/processor"
	"nextgen-api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting NextGen API",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
		zap.String("processor", cfg.Processor.Provider),
	)

	proc := buildProcessor(cfg, log)
	dispatcher := dispatch.New(proc, cfg.Processor.TimeoutDuration(), log)
	router := server.NewRouter(cfg, dispatcher, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()
	zapLog.Info("NextGen API is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("forced shutdown", zap.Error(err))
	}
	zapLog.Info("server stopped")
}

func buildProcessor(cfg *config.Config, log logger.Logger) dispatch.Processor {
	switch cfg.Processor.Provider {
	case "openai":
		return processor.NewOpenAI(processor.Config{
			APIKey:  cfg.Processor.APIKey,
			BaseURL: cfg.Processor.BaseURL,
			Model:   cfg.Processor.Model,
		}, log)
	default:
		return processor.NewStatic()
	}
}
