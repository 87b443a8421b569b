package main

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pharmadesk/pharmadesk/internal/config"
	"github.com/pharmadesk/pharmadesk/internal/domain/booking"
	"github.com/pharmadesk/pharmadesk/internal/domain/doctor"
	"github.com/pharmadesk/pharmadesk/internal/domain/employee"
	"github.com/pharmadesk/pharmadesk/internal/domain/inventory"
	"github.com/pharmadesk/pharmadesk/internal/domain/invoice"
	"github.com/pharmadesk/pharmadesk/internal/domain/patient"
	"github.com/pharmadesk/pharmadesk/internal/platform/auth"
	"github.com/pharmadesk/pharmadesk/internal/platform/bridge"
	"github.com/pharmadesk/pharmadesk/internal/platform/db"
	"github.com/pharmadesk/pharmadesk/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pharmadesk-server",
		Short: "Clinic and pharmacy back-office API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// resolveJWTSecret falls back to a random per-process secret when none
// is configured. Tokens then stop verifying across restarts, which is
// acceptable for a desktop deployment that logs in on launch.
func resolveJWTSecret(configured string, logger zerolog.Logger) (string, error) {
	if configured != "" {
		return configured, nil
	}
	key := make([]byte, 32)
	if _, err := crypto_rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	logger.Warn().Msg("JWT_SECRET not set, using a random per-process secret")
	return hex.EncodeToString(key), nil
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Event bridge for the supervising desktop shell. Disabled unless
	// BRIDGE_EVENTS is set; a disabled emitter swallows every call.
	events := bridge.New(os.Stdout, cfg.BridgeEvents)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		events.DatabaseStatus(false, err.Error())
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	events.DatabaseStatus(true, "")
	logger.Info().Msg("connected to database")

	secret, err := resolveJWTSecret(cfg.JWTSecret, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve JWT secret")
	}
	issuer, err := auth.NewTokenIssuer(secret, auth.DefaultTokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build token issuer")
	}

	// Domain wiring. Cross-domain lookups go through the services, never
	// the repositories, so every check shares one code path.
	doctorSvc := doctor.NewService(doctor.NewRepoPG(pool))
	inventorySvc := inventory.NewService(inventory.NewMedicineRepoPG(pool), inventory.NewTagRepoPG(pool))
	employeeSvc := employee.NewService(employee.NewRepoPG(pool), issuer)
	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	bookingSvc := booking.NewService(
		booking.NewRepoPG(pool), booking.NewServiceRepoPG(pool), booking.NewSlotRepoPG(pool), doctorSvc)
	invoiceSvc := invoice.NewService(
		invoice.NewPharmacyRepoPG(pool), invoice.NewClinicRepoPG(pool),
		employeeSvc, patientSvc, doctorSvc, bookingSvc, inventorySvc)

	if err := bookingSvc.SeedTimeSlots(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed time slots")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger, events))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	public := e.Group("/api")
	public.Use(middleware.RateLimit(rateLimitCfg))

	api := e.Group("/api")
	api.Use(middleware.RateLimit(rateLimitCfg))
	if cfg.AuthRequired {
		api.Use(auth.Middleware(issuer))
	}

	employee.NewHandler(employeeSvc).RegisterRoutes(public, api)
	doctor.NewHandler(doctorSvc).RegisterRoutes(api)
	inventory.NewHandler(inventorySvc).RegisterRoutes(api)
	patient.NewHandler(patientSvc).RegisterRoutes(api)
	booking.NewHandler(bookingSvc).RegisterRoutes(api)
	invoice.NewHandler(invoiceSvc).RegisterRoutes(api)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool, events))

	go func() {
		events.ServerStatus(true)
		if port, err := strconv.Atoi(cfg.Port); err == nil {
			events.SocketInfo("127.0.0.1", port)
		}
		logger.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server start failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	events.ServerStop()
	events.ServerStatus(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
