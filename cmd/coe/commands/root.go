package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lowkh/coewatch/internal/dataset"
	"github.com/lowkh/coewatch/internal/features"
	"github.com/lowkh/coewatch/pkg/config"
	"github.com/lowkh/coewatch/pkg/database"
	"github.com/lowkh/coewatch/pkg/logger"
)

var (
	// Global flags
	csvPath string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coe",
	Short: "coewatch - COE premium prediction service",
	Long: `coewatch predicts the next COE bidding premium per vehicle class
from historical bidding results plus optional scenario overrides.

Usage:
  go run ./cmd/coe [command]

Examples:
  go run ./cmd/coe api
  go run ./cmd/coe categories
  go run ./cmd/coe predict --class "Category A" --quota 1200
  go run ./cmd/coe features --out engineered.csv
  go run ./cmd/coe fetch`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", "", "bidding results CSV (overrides DATASET_CSV_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads config and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if csvPath != "" {
		cfg.Dataset.Source = "csv"
		cfg.Dataset.CSVPath = csvPath
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// newDatasetStore wires the configured dataset source into a store.
// The returned cleanup closes any database connection behind it.
func newDatasetStore(cfg *config.Config, log *logger.Logger) (*dataset.Store, func(), error) {
	cleanup := func() {}

	var source dataset.Source
	switch cfg.Dataset.Source {
	case "postgres":
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		cleanup = db.Close
		source = dataset.NewRepository(db.Pool)
	default:
		source = dataset.NewCSVSource(cfg.Dataset.CSVPath, log)
	}

	store := dataset.NewStore(source, features.NewBuilder(log), log)
	return store, cleanup, nil
}
