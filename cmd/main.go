package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dherslof/racing-companion/internal/auth"
	"github.com/dherslof/racing-companion/internal/config"
	"github.com/dherslof/racing-companion/internal/db"
	"github.com/dherslof/racing-companion/internal/handlers"
	"github.com/dherslof/racing-companion/internal/registry"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// newHandler loads the three registries from cfg.DataDir and builds the
// local API on top of them.
func newHandler(cfg *config.Config, logger *log.Logger) (http.Handler, error) {
	coll := db.NewJSONCollection(db.NewFileStore(cfg.DataDir))

	vehicles, err := registry.NewVehicleRegistry(coll, logger)
	if err != nil {
		return nil, err
	}
	trackDays, err := registry.NewTrackDayRegistry(coll, vehicles, logger)
	if err != nil {
		return nil, err
	}
	maintenance, err := registry.NewMaintenanceRegistry(coll, vehicles, logger)
	if err != nil {
		return nil, err
	}

	var authService *auth.Service
	if cfg.AuthEnabled() {
		authService, err = auth.NewService(cfg.API.JWTSecret, cfg.API.TokenExp, cfg.API.Passphrase)
		if err != nil {
			return nil, err
		}
	}

	return handlers.NewRouter(handlers.RouterConfig{
		Vehicles:    vehicles,
		TrackDays:   trackDays,
		Maintenance: maintenance,
		Auth:        authService,
		Logger:      logger,
	}), nil
}

func main() {
	logger := log.StandardLogger()

	cfg, err := config.Load(os.Getenv("RC_ENV_FILE"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.ConfigureLogger(logger); err != nil {
		logger.WithError(err).Fatal("Invalid logging configuration")
	}

	handler, err := newHandler(cfg, logger)
	if err != nil {
		logger.WithError(err).WithField("data_dir", cfg.DataDir).Fatal("Failed to load records")
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	logger.WithFields(log.Fields{
		"addr":     cfg.HTTP.Addr,
		"data_dir": cfg.DataDir,
		"auth":     cfg.AuthEnabled(),
	}).Info("Local API listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("HTTP server failed")
	}
	logger.Info("Local API stopped")
}
