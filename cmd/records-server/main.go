package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/visioncare/records/internal/config"
	"github.com/visioncare/records/internal/domain/patient"
	"github.com/visioncare/records/internal/platform/kvstore"
	"github.com/visioncare/records/internal/platform/metrics"
	"github.com/visioncare/records/internal/platform/middleware"
	"github.com/visioncare/records/internal/platform/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "records-server",
		Short: "Vision records API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the records API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func openRepo(ctx context.Context, cfg *config.Config) (kvstore.Store, *patient.Repository, error) {
	store, err := kvstore.Open(ctx, kvstore.Options{
		Driver:      cfg.StorageDriver,
		Path:        cfg.DataPath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	repo, err := patient.NewRepository(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return store, repo, nil
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	store, repo, err := openRepo(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close()
	logger.Info().Str("driver", cfg.StorageDriver).Msg("storage ready")

	gate := session.NewGate(store, cfg.AdminUsername, cfg.AdminPassword, []byte(cfg.SessionSecret))

	m := metrics.New()
	svc := patient.NewService(repo, cfg.AppName, logger)
	svc.SetMetrics(m)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(m.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.IsDev() {
		logger.Warn().Msg("development mode: login gate disabled")
		e.Use(session.DevMiddleware())
	} else {
		e.Use(session.Middleware(gate))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", m.Handler())

	apiV1 := e.Group("/api/v1")
	session.NewHandler(gate).RegisterRoutes(apiV1)
	patient.NewHandler(svc).RegisterRoutes(apiV1)

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

func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all patient records to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, repo, err := openRepo(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := patient.NewService(repo, cfg.AppName, logger)
			csv, err := svc.ExportCurrentPatients()
			if err != nil {
				return err
			}
			if out == "" {
				out = svc.ExportFilename(time.Now())
			}
			if err := os.WriteFile(out, []byte(csv), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			logger.Info().Str("file", out).Msg("export written")
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default <app-name>-<date>.csv)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import patient records from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			store, repo, err := openRepo(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			svc := patient.NewService(repo, cfg.AppName, logger)
			summary, err := svc.ImportPatientsFromFile(ctx, f)
			if err != nil {
				return err
			}
			logger.Info().
				Int("imported", summary.Imported).
				Int("skipped", summary.Skipped).
				Msg("import finished")
			return nil
		},
	}
}
