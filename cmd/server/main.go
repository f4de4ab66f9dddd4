package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/codeloft/termdeck/backend/internal/config"
	"github.com/codeloft/termdeck/backend/internal/logging"
	"github.com/codeloft/termdeck/backend/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	port := flag.String("port", "", "listen port (overrides PORT)")
	host := flag.String("host", "", "listen host (overrides HOST)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		log = logging.NewDefault()
	}
	defer log.Sync()

	srv := server.New(cfg, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("shutdown incomplete", zap.Error(err))
		}
	case err := <-errChan:
		log.Fatal("server error", zap.Error(err))
	}
}
