package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lowkh/coewatch/internal/api"
	"github.com/lowkh/coewatch/internal/api/handlers"
	"github.com/lowkh/coewatch/internal/dataset"
	"github.com/lowkh/coewatch/internal/external/onemotoring"
	"github.com/lowkh/coewatch/internal/features"
	"github.com/lowkh/coewatch/internal/model"
	"github.com/lowkh/coewatch/internal/scenario"
	"github.com/lowkh/coewatch/internal/scheduler"
	"github.com/lowkh/coewatch/internal/scheduler/jobs"
	"github.com/lowkh/coewatch/pkg/database"
	"github.com/lowkh/coewatch/pkg/httputil"
	"github.com/lowkh/coewatch/pkg/logger"
	"github.com/lowkh/coewatch/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the prediction API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                                 - Health check
  POST /api/predict                            - Predict next premium
  GET  /api/categories                         - List vehicle classes
  GET  /api/categories/{class}/latest          - Latest engineered record
  GET  /api/categories/{class}/scenario        - Stored scenario inputs
  PUT  /api/categories/{class}/scenario        - Store scenario inputs
  POST /api/categories/{class}/scenario/reset  - Reset to latest-record defaults
  POST /api/dataset/reload                     - Reload the dataset

Example:
  go run ./cmd/coe api
  go run ./cmd/coe api --port 8087`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":   cfg.Port,
		"env":    cfg.Env,
		"source": cfg.Dataset.Source,
	}).Info("Initializing API server")

	// 3. Connect to database when configured
	var db *database.DB
	var repo *dataset.Repository
	if cfg.Database.Enabled || cfg.Dataset.Source == "postgres" {
		db, err = database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo = dataset.NewRepository(db.Pool)
		if err := repo.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
		log.Info("Connected to database")
	}

	// 4. Build the dataset store and load it once
	var source dataset.Source
	if cfg.Dataset.Source == "postgres" {
		source = repo
	} else {
		source = dataset.NewCSVSource(cfg.Dataset.CSVPath, log)
	}
	store := dataset.NewStore(source, features.NewBuilder(log), log)
	if err := store.Load(cmd.Context()); err != nil {
		return err
	}

	// 5. Redis prediction cache (no-op when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	cache := redis.NewCache(redisClient, "coewatch")

	// 6. External collaborators
	httpClient := httputil.New(log)
	predictor := model.NewClient(cfg.Model.BaseURL, httputil.NewWithTimeout(log, cfg.Model.Timeout), log)
	fetcher := onemotoring.NewClient(cfg.OneMotoring.BaseURL, httpClient.WithRateLimit(1, 2), log)

	// 7. Core pipeline components
	resolver := scenario.NewResolver(log)
	scenarios := scenario.NewStore()

	// 8. Scheduler, handlers and router
	sched := scheduler.New(log)
	predictHandler := handlers.NewPredictHandler(store, resolver, scenarios, predictor, cache, log)
	datasetHandler := handlers.NewDatasetHandler(store, scenarios, log)
	jobsHandler := handlers.NewJobsHandler(sched, log)
	router := api.NewRouter(predictHandler, datasetHandler, jobsHandler, log)

	// 9. Scheduled refresh when configured. The job archives fetched
	// results and reloads the store from the archive, so it only makes
	// sense when the archive is what the store serves from.
	if cfg.Dataset.RefreshSchedule != "" {
		if cfg.Dataset.Source != "postgres" {
			log.Warn("DATASET_REFRESH_SCHEDULE is set but DATASET_SOURCE is not postgres; " +
				"fetched results would never reach the served table, refresh job not scheduled")
		} else {
			refreshJob := jobs.NewRefreshJob(fetcher, repo, store, scenarios, cfg, log)
			if err := sched.AddJob(refreshJob); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()
		}
	}

	// 10. Start server with graceful shutdown
	server := api.New(cfg, log, router)
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s (records: %d)\n", cfg.Port, store.Len())
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
