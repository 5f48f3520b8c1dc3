package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pawal-karki/airwings-core/api"
	"github.com/pawal-karki/airwings-core/config"
	"github.com/pawal-karki/airwings-core/internal/service/booking"
	"github.com/pawal-karki/airwings-core/internal/service/flights"
	"github.com/pawal-karki/airwings-core/internal/service/schedule"
	"github.com/pawal-karki/airwings-core/internal/service/search"
	"github.com/sirupsen/logrus"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	flightSvc flights.FlightUseCase,
	bookingSvc booking.BookingUseCase,
	scheduleSvc schedule.ScheduleUseCase,
	searchSvc search.SearchUseCase,
) error {
	router := NewRouter(cfg, flightSvc, bookingSvc, scheduleSvc, searchSvc)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	logrus.WithField("address", cfg.HTTP.Address).Info("http server started")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter wires every handler group under /api. Split out of Run so
// handler tests can exercise the full routing table.
func NewRouter(
	cfg *config.Config,
	flightSvc flights.FlightUseCase,
	bookingSvc booking.BookingUseCase,
	scheduleSvc schedule.ScheduleUseCase,
	searchSvc search.SearchUseCase,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	root := router.Group("/api")
	api.NewFlightHandler(flightSvc, searchSvc, cfg.Auth.AdminToken).Register(root.Group("/flights"))
	api.NewBookingHandler(bookingSvc, cfg.Auth.AdminToken).Register(root.Group("/bookings"))
	api.NewScheduleHandler(scheduleSvc, cfg.Auth.AdminToken).Register(root.Group("/schedules"))

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("request handled")
	}
}
