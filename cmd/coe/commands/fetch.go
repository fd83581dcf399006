package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lowkh/coewatch/internal/dataset"
	"github.com/lowkh/coewatch/internal/external/onemotoring"
	"github.com/lowkh/coewatch/pkg/database"
	"github.com/lowkh/coewatch/pkg/httputil"
	"github.com/lowkh/coewatch/pkg/logger"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the latest published bidding results",
	Long: `Fetches the most recently published COE bidding exercise results
and prints one record per vehicle class. With --save, the records are
upserted into the PostgreSQL archive (requires DATABASE_URL).

Example:
  go run ./cmd/coe fetch
  go run ./cmd/coe fetch --save`,
	RunE: runFetch,
}

var fetchSave bool

func init() {
	rootCmd.AddCommand(fetchCmd)

	// Flags
	fetchCmd.Flags().BoolVar(&fetchSave, "save", false, "upsert fetched records into the archive")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	httpClient := httputil.New(log).WithRateLimit(1, 2)
	fetcher := onemotoring.NewClient(cfg.OneMotoring.BaseURL, httpClient, log)

	ctx := cmd.Context()
	records, err := fetcher.FetchLatestResults(ctx)
	if err != nil {
		return err
	}

	for _, r := range records {
		fmt.Printf("%-12s %s #%d  quota=%.0f received=%.0f success=%.0f premium=%.0f\n",
			r.VehicleClass, r.Month.Format("2006-01"), r.BiddingNo,
			r.Quota, r.BidsReceived, r.BidsSuccess, r.Premium)
	}

	if !fetchSave {
		return nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := dataset.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	written, err := repo.Upsert(ctx, records)
	if err != nil {
		return err
	}

	fmt.Printf("Archived %d records\n", written)
	return nil
}
