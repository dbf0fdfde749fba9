package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mindease/mindease/internal/config"
	"github.com/mindease/mindease/internal/domain/appointment"
	"github.com/mindease/mindease/internal/domain/journal"
	"github.com/mindease/mindease/internal/domain/medication"
	"github.com/mindease/mindease/internal/domain/mood"
	"github.com/mindease/mindease/internal/domain/payment"
	"github.com/mindease/mindease/internal/domain/therapist"
	"github.com/mindease/mindease/internal/domain/user"
	"github.com/mindease/mindease/internal/platform/auth"
	"github.com/mindease/mindease/internal/platform/db"
	"github.com/mindease/mindease/internal/platform/meeting"
	"github.com/mindease/mindease/internal/platform/middleware"
	"github.com/mindease/mindease/internal/platform/notification"
)

// userDirectoryAdapter exposes the user service as the appointment core's
// user-lookup port.
type userDirectoryAdapter struct {
	users *user.Service
}

func (a *userDirectoryAdapter) FindUser(ctx context.Context, id uuid.UUID) (*appointment.Party, error) {
	u, err := a.users.Get(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return nil, appointment.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appointment.Party{ID: u.ID, Name: u.Username, Email: u.Email}, nil
}

// therapistDirectoryAdapter exposes the therapist service as both the
// appointment core's therapist-lookup port and the medication package's
// prescriber directory.
type therapistDirectoryAdapter struct {
	therapists *therapist.Service
}

func (a *therapistDirectoryAdapter) FindTherapist(ctx context.Context, id uuid.UUID) (*appointment.Party, error) {
	t, err := a.therapists.Get(ctx, id)
	if errors.Is(err, therapist.ErrNotFound) {
		return nil, appointment.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &appointment.Party{ID: t.ID, Name: t.Name, Email: t.Email}, nil
}

func (a *therapistDirectoryAdapter) TherapistName(ctx context.Context, id uuid.UUID) (string, error) {
	t, err := a.therapists.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return t.Name, nil
}

// userCheckerAdapter satisfies the existence-check ports of the journal,
// medication and payment packages.
type userCheckerAdapter struct {
	users *user.Service
}

func (a *userCheckerAdapter) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := a.users.Get(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "mindease-server",
		Short: "MindEase API Server",
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
		Short: "Start the MindEase API server",
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
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
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
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
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
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Rollback last migration (not supported)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("WARNING: migrate down is destructive and not supported by the built-in runner.")
			return nil
		},
	})

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.SanitizeWithLogger(logger))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware([]byte(cfg.JWTSecret)))
	}

	// API group with rate limiting
	apiV1 := e.Group("/api/v1")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Notifications: real SMTP when configured, mock sender otherwise.
	var emailSender notification.EmailSender
	if cfg.SMTPHost != "" {
		emailSender = notification.NewSMTPSender(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		logger.Info().Str("host", cfg.SMTPHost).Msg("using SMTP email sender")
	} else {
		emailSender = &notification.MockEmailSender{}
		logger.Warn().Msg("SMTP_HOST not set, emails will not be delivered")
	}
	notifier := notification.NewNotificationManager(emailSender, &notification.MockSMSSender{}, notification.NewTemplateEngine())

	// Meeting links: Google Calendar when configured, static fallback link
	// otherwise. Either way provider failures fall back to a usable link.
	var linkProvider meeting.LinkProvider = meeting.StaticProvider{}
	googleCfg := meeting.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleSecret,
		RefreshToken: cfg.GoogleRefresh,
	}
	if googleCfg.Configured() {
		linkProvider = meeting.WithFallback{Provider: meeting.NewGoogleProvider(ctx, googleCfg), Logger: logger}
		logger.Info().Msg("using Google Calendar meeting links")
	}

	// Domain services
	userSvc := user.NewService(user.NewRepoPG(pool), []byte(cfg.JWTSecret),
		time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	therapistSvc := therapist.NewService(therapist.NewRepoPG(pool))
	moodSvc := mood.NewService(mood.NewRepoPG(pool))

	userDir := &userDirectoryAdapter{users: userSvc}
	therapistDir := &therapistDirectoryAdapter{therapists: therapistSvc}
	userCheck := &userCheckerAdapter{users: userSvc}

	appointmentSvc := appointment.NewService(appointment.NewRepoPG(pool),
		userDir, therapistDir, notifier, linkProvider, logger)
	journalSvc := journal.NewService(journal.NewRepoPG(pool), userCheck, moodSvc)
	medicationSvc := medication.NewService(medication.NewRepoPG(pool), userCheck, therapistDir)
	paymentSvc := payment.NewService(payment.NewRepoPG(pool), userCheck)

	// Routes
	user.NewHandler(userSvc).RegisterRoutes(apiV1)
	therapist.NewHandler(therapistSvc).RegisterRoutes(apiV1)
	appointment.NewHandler(appointmentSvc).RegisterRoutes(apiV1)
	journal.NewHandler(journalSvc).RegisterRoutes(apiV1)
	mood.NewHandler(moodSvc).RegisterRoutes(apiV1)
	medication.NewHandler(medicationSvc).RegisterRoutes(apiV1)
	payment.NewHandler(paymentSvc).RegisterRoutes(apiV1)
	notification.NewNotificationHandler(notifier).RegisterRoutes(
		apiV1.Group("", auth.RequireRole(auth.RoleAdmin)))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
