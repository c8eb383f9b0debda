package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/enoteca-decanter/agenda/config"
	"github.com/enoteca-decanter/agenda/internal/client"
	"github.com/enoteca-decanter/agenda/internal/lib/logger/sl"
	"github.com/enoteca-decanter/agenda/internal/metrics"
	"github.com/enoteca-decanter/agenda/internal/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := sl.Setup(cfg.Env)
	log.Info("starting agenda", slog.String("env", cfg.Env), slog.String("store_url", cfg.StoreURL))

	m := metrics.New("agenda")
	store := client.New(log, cfg.StoreURL, cfg.StoreTimeout, client.WithObserver(m))

	e, err := web.NewServer(log, store, m)
	if err != nil {
		log.Error("failed to build server", sl.Err(err))
		os.Exit(1)
	}

	go func() {
		log.Info("agenda listening", slog.String("port", cfg.ServerPort))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", sl.Err(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	sign := <-stop
	log.Info("stopping agenda", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("failed to stop agenda", sl.Err(err))
		return
	}
	log.Info("agenda stopped")
}
