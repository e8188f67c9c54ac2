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

	"github.com/trialmatch/trialmatch/internal/config"
	"github.com/trialmatch/trialmatch/internal/domain/admin"
	"github.com/trialmatch/trialmatch/internal/domain/facts"
	"github.com/trialmatch/trialmatch/internal/domain/patient"
	"github.com/trialmatch/trialmatch/internal/domain/pipeline"
	"github.com/trialmatch/trialmatch/internal/domain/resource"
	"github.com/trialmatch/trialmatch/internal/platform/middleware"
	"github.com/trialmatch/trialmatch/internal/platform/store"
	"github.com/trialmatch/trialmatch/internal/synth"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trialmatch-server",
		Short: "Demo clinical records dashboard API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(generateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a dataset snapshot without serving",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetUint64("seed")
			out, _ := cmd.Flags().GetString("out")
			min, _ := cmd.Flags().GetInt("min-resources")
			max, _ := cmd.Flags().GetInt("max-resources")

			gen := synth.New(synth.Options{
				Seed:         seed,
				MinResources: min,
				MaxResources: max,
			})
			ds := gen.Generate(synth.DefaultArchetypes)

			st := store.New(out)
			if err := st.Save(ds); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}

			fmt.Printf("Generated batch %s (seed %d): %d patients, %d resources → %s\n",
				ds.Manifest.BatchID, ds.Manifest.Seed, len(ds.Patients), len(ds.Resources), out)
			return nil
		},
	}
	cmd.Flags().Uint64("seed", 0, "Deterministic seed (0 picks one)")
	cmd.Flags().String("out", "./data", "Output directory for the snapshot")
	cmd.Flags().Int("min-resources", 3, "Minimum resources per patient")
	cmd.Flags().Int("max-resources", 6, "Maximum resources per patient")
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Domain wiring
	patientRepo := patient.NewMemoryRepo(nil)
	resourceRepo := resource.NewMemoryRepo(nil)
	factsRepo := facts.NewMemoryRepo(nil)

	patientSvc := patient.NewService(patientRepo)
	resourceSvc := resource.NewService(resourceRepo)
	factsSvc := facts.NewService(factsRepo)
	pipelineSvc := pipeline.NewService(factsSvc)

	st := store.New(cfg.DataDir)
	adminSvc := admin.NewService(st, synth.DefaultArchetypes,
		patientSvc, resourceSvc, factsSvc, pipelineSvc)

	// Dataset bootstrap: reuse the persisted snapshot when present,
	// otherwise generate one.
	ctx := context.Background()
	if st.Exists() && !cfg.RegenOnStartup {
		ds, err := st.Load()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load snapshot")
		}
		if err := adminSvc.Install(ctx, ds); err != nil {
			logger.Fatal().Err(err).Msg("failed to install snapshot")
		}
		logger.Info().
			Str("batch_id", ds.Manifest.BatchID).
			Int("patients", len(ds.Patients)).
			Int("resources", len(ds.Resources)).
			Msg("loaded snapshot")
	} else {
		ds, err := adminSvc.Regenerate(ctx, admin.GenerateOptions{
			Seed:                   cfg.Seed,
			MinResourcesPerPatient: cfg.MinResources,
			MaxResourcesPerPatient: cfg.MaxResources,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to generate dataset")
		}
		logger.Info().
			Str("batch_id", ds.Manifest.BatchID).
			Uint64("seed", ds.Manifest.Seed).
			Int("patients", len(ds.Patients)).
			Int("resources", len(ds.Resources)).
			Msg("generated dataset")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "X-Request-Id"},
	}))

	// API routes
	apiV1 := e.Group("/api/v1")
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	resource.NewHandler(resourceSvc).RegisterRoutes(apiV1)
	facts.NewHandler(factsSvc).RegisterRoutes(apiV1)
	pipeline.NewHandler(pipelineSvc).RegisterRoutes(apiV1)
	admin.NewHandler(adminSvc).RegisterRoutes(e, apiV1)

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
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
