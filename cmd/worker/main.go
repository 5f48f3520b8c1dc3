package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pawal-karki/airwings-core/config"
	"github.com/pawal-karki/airwings-core/internal/cache"
	"github.com/pawal-karki/airwings-core/internal/email"
	"github.com/pawal-karki/airwings-core/internal/kafka"
	"github.com/pawal-karki/airwings-core/internal/repository"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Cache.FlightsTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.SearchTTLSeconds)*time.Second)
	flightRepo := repository.NewFlightRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logrus.WithError(err).Warn("decode booking event")
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			logrus.WithError(err).Info("consumer stopped")
		}
	}()

	// Periodically warm the flights cache so the catalog list stays hot
	// even when no mutation has invalidated it recently.
	refreshTicker := time.NewTicker(time.Duration(cfg.Worker.CacheRefreshMinutes) * time.Minute)
	defer refreshTicker.Stop()

	for {
		select {
		case <-refreshTicker.C:
			flights, err := flightRepo.List(ctx, repository.FlightFilter{})
			if err != nil {
				logrus.WithError(err).Warn("refresh flights cache: list")
				continue
			}
			if err := redisCache.SetFlights(ctx, flights); err != nil {
				logrus.WithError(err).Warn("refresh flights cache: set")
				continue
			}
			logrus.WithField("flights", len(flights)).Debug("flights cache refreshed")
		case <-ctx.Done():
			logrus.Info("shutting down worker")
			return
		}
	}
}
