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
	"github.com/enoteca-decanter/agenda/internal/handler"
	"github.com/enoteca-decanter/agenda/internal/lib/logger/sl"
	"github.com/enoteca-decanter/agenda/internal/metrics"
	"github.com/enoteca-decanter/agenda/internal/repository"
	"github.com/enoteca-decanter/agenda/internal/service"
	"github.com/enoteca-decanter/agenda/pkg/database"
	"github.com/enoteca-decanter/agenda/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := sl.Setup(cfg.Env)
	log.Info("starting store", slog.String("env", cfg.Env), slog.String("db_driver", cfg.DBDriver))

	db, err := database.Open(cfg)
	if err != nil {
		log.Error("failed to open database", sl.Err(err))
		os.Exit(1)
	}

	// RabbitMQ publisher: announce booking changes to whoever listens
	var publisher service.Publisher
	if cfg.RabbitURL != "" {
		mq, err := rabbitmq.NewPublisher(log, cfg.RabbitURL)
		if err != nil {
			log.Error("failed to connect to RabbitMQ", sl.Err(err))
			os.Exit(1)
		}
		defer mq.Close()
		publisher = mq
	} else {
		log.Info("RABBITMQ_URL not set, change events disabled")
	}

	bookingRepo := repository.NewBookingRepository(db)
	bookingSvc := service.NewBookingService(log, bookingRepo, publisher)

	e := handler.NewServer(log, bookingSvc, metrics.New("store"))

	go func() {
		log.Info("store listening", slog.String("port", cfg.StorePort))
		if err := e.Start(":" + cfg.StorePort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", sl.Err(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	sign := <-stop
	log.Info("stopping store", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("failed to stop store", sl.Err(err))
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("store stopped")
}
