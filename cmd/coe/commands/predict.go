package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lowkh/coewatch/internal/contracts"
	"github.com/lowkh/coewatch/internal/model"
	"github.com/lowkh/coewatch/internal/scenario"
	"github.com/lowkh/coewatch/pkg/httputil"
	"github.com/lowkh/coewatch/pkg/logger"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the next premium for a vehicle class",
	Long: `Predicts the next bidding premium for a vehicle class from its
latest record, with optional scenario overrides for the raw quantities.
History features (lags, rolling stats) always come from the latest
record and are never recomputed under a hypothetical scenario.

Example:
  go run ./cmd/coe predict --class "Category A"
  go run ./cmd/coe predict --class "Category B" --quota 1200 --received 1800`,
	RunE: runPredict,
}

var (
	predictClass     string
	predictQuota     float64
	predictReceived  float64
	predictSuccess   float64
	predictBiddingNo int
)

func init() {
	rootCmd.AddCommand(predictCmd)

	// Flags
	predictCmd.Flags().StringVar(&predictClass, "class", "", "vehicle class (required)")
	predictCmd.Flags().Float64Var(&predictQuota, "quota", 0, "override quota")
	predictCmd.Flags().Float64Var(&predictReceived, "received", 0, "override bids received")
	predictCmd.Flags().Float64Var(&predictSuccess, "success", 0, "override successful bids")
	predictCmd.Flags().IntVar(&predictBiddingNo, "bidding-no", 0, "override bidding exercise number")
	predictCmd.MarkFlagRequired("class")
}

func runPredict(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()
	if err := store.Load(ctx); err != nil {
		return err
	}

	latest, ok := store.Latest(predictClass)
	if !ok {
		return fmt.Errorf("no records found for vehicle class %q", predictClass)
	}

	// Only flags the user actually set become overrides.
	in := contracts.ScenarioInput{VehicleClass: predictClass}
	if cmd.Flags().Changed("quota") {
		in.Quota = &predictQuota
	}
	if cmd.Flags().Changed("received") {
		in.BidsReceived = &predictReceived
	}
	if cmd.Flags().Changed("success") {
		in.BidsSuccess = &predictSuccess
	}
	if cmd.Flags().Changed("bidding-no") {
		in.BiddingNo = &predictBiddingNo
	}

	resolver := scenario.NewResolver(log)
	row, err := resolver.Resolve(latest, in)
	if err != nil {
		var verr *contracts.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid scenario: %w", verr)
		}
		return err
	}

	for _, warning := range resolver.Warnings(row) {
		fmt.Printf("warning: %s\n", warning)
	}

	predictor := model.NewClient(cfg.Model.BaseURL, httputil.NewWithTimeout(log, cfg.Model.Timeout), log)
	prediction, err := predictor.Predict(ctx, row)
	if err != nil {
		return err
	}

	fmt.Printf("Latest record: %s, bidding #%d (premium %.0f)\n",
		latest.Month.Format("2006-01"), latest.BiddingNo, latest.Premium)
	fmt.Printf("Predicted next premium for %s: %.2f\n", predictClass, prediction)
	return nil
}
