package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pawal-karki/airwings-core/config"
	"github.com/pawal-karki/airwings-core/internal/bootstrap"
	"github.com/pawal-karki/airwings-core/internal/cache"
	"github.com/pawal-karki/airwings-core/internal/kafka"
	"github.com/pawal-karki/airwings-core/internal/repository"
	"github.com/pawal-karki/airwings-core/internal/service/booking"
	"github.com/pawal-karki/airwings-core/internal/service/flights"
	"github.com/pawal-karki/airwings-core/internal/service/schedule"
	"github.com/pawal-karki/airwings-core/internal/service/search"
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
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)

	flightService := flights.NewFlightService(flightRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	scheduleService := schedule.NewScheduleService(scheduleRepo, flightRepo)
	searchService := search.NewSearchService(flightRepo, redisCache)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService, scheduleService, searchService); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
