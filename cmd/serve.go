package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hotel-pms/config"
	"hotel-pms/controllers"
	"hotel-pms/routes"
	"hotel-pms/services"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Central storage must exist before the first request.
	if cfg.AutoMigrate {
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		if err := config.SeedDatabase(db, log); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	} else if _, err := config.EnsureCentralStorage(db); err != nil {
		return fmt.Errorf("ensure central storage: %w", err)
	}

	users := services.NewUserService(db, log)
	auth := services.NewAuthService(users, cfg.JWTSecret, cfg.AccessTokenTTL)
	stock := services.NewStockService(db, log)
	folio := services.NewFolioService(db, log)

	router := routes.SetupRouter(cfg.CORSOrigins, log, auth, routes.Controllers{
		Auth:         controllers.NewAuthController(auth, users),
		Inventory:    controllers.NewInventoryController(services.NewInventoryService(db, log), stock),
		Rooms:        controllers.NewRoomController(services.NewRoomService(db, log)),
		Pricing:      controllers.NewPricingController(services.NewPricingService(db, log)),
		Booking:      controllers.NewBookingController(services.NewAvailabilityService(db, log)),
		Guests:       controllers.NewGuestController(services.NewGuestService(db, log)),
		Reservations: controllers.NewReservationController(services.NewReservationService(db, log), folio),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Warn().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
	return nil
}
