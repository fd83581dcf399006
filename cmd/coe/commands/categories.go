package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lowkh/coewatch/pkg/logger"
)

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List vehicle classes in the dataset",
	Long: `Lists the distinct vehicle classes present in the configured
dataset, with each class's latest bidding exercise.

Example:
  go run ./cmd/coe categories`,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	store, cleanup, err := newDatasetStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.Load(cmd.Context()); err != nil {
		return err
	}

	for _, class := range store.Categories() {
		latest, _ := store.Latest(class)
		fmt.Printf("%-12s latest %s #%d  premium=%.0f\n",
			class, latest.Month.Format("2006-01"), latest.BiddingNo, latest.Premium)
	}

	return nil
}
