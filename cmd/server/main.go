package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tabshell/tabshell/backend/internal/infrastructure/config"
	"github.com/tabshell/tabshell/backend/internal/infrastructure/logging"
	"github.com/tabshell/tabshell/backend/internal/server"
)

func main() {
	port := flag.String("port", "", "Listen port (overrides PORT)")
	dev := flag.Bool("dev", false, "Development mode: debug level, console encoding")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	logCfg := logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	}
	log, err := logging.New(logCfg)
	if err != nil {
		log = logging.NewDefault()
		log.Warn("logger config invalid, using defaults", zap.Error(err))
	}
	defer log.Sync()

	srv := server.New(cfg, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case sig := <-sigChan:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown error", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}
}
