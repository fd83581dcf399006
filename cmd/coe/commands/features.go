package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lowkh/coewatch/internal/contracts"
	"github.com/lowkh/coewatch/pkg/logger"
)

// featuresCmd represents the features command
var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Export the engineered feature table",
	Long: `Builds the engineered feature table from the configured dataset and
writes it as CSV. Useful for inspecting exactly what the model sees.

Example:
  go run ./cmd/coe features --out engineered.csv`,
	RunE: runFeatures,
}

var featuresOut string

func init() {
	rootCmd.AddCommand(featuresCmd)

	// Flags
	featuresCmd.Flags().StringVar(&featuresOut, "out", "engineered.csv", "output CSV path")
}

func runFeatures(cmd *cobra.Command, args []string) error {
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

	f, err := os.Create(featuresOut)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"vehicle_class", "month", "bidding_no",
		"quota", "bids_received", "bids_success", "premium",
		"demand_supply_ratio", "success_rate",
		"year", "month_num", "quarter",
		"premium_lag1", "premium_lag2", "premium_lag3",
		"premium_roll_mean_3", "premium_roll_std_3",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	records := store.Engineered()
	for _, r := range records {
		if err := w.Write(featureRow(r)); err != nil {
			return err
		}
	}

	fmt.Printf("Wrote %d engineered records to %s\n", len(records), featuresOut)
	return nil
}

func featureRow(r contracts.EngineeredRecord) []string {
	return []string{
		r.VehicleClass,
		r.Month.Format("2006-01"),
		strconv.Itoa(r.BiddingNo),
		formatFloat(r.Quota),
		formatFloat(r.BidsReceived),
		formatFloat(r.BidsSuccess),
		formatFloat(r.Premium),
		formatFloat(r.DemandSupplyRatio),
		formatFloat(r.SuccessRate),
		strconv.Itoa(r.Year),
		strconv.Itoa(r.MonthNum),
		strconv.Itoa(r.Quarter),
		formatFloat(r.PremiumLag1),
		formatFloat(r.PremiumLag2),
		formatFloat(r.PremiumLag3),
		formatFloat(r.PremiumRollMean3),
		formatFloat(r.PremiumRollStd3),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
