package jobs

import (
	"context"
	"fmt"

	"github.com/lowkh/coewatch/internal/dataset"
	"github.com/lowkh/coewatch/internal/external/onemotoring"
	"github.com/lowkh/coewatch/internal/scenario"
	"github.com/lowkh/coewatch/pkg/config"
	"github.com/lowkh/coewatch/pkg/logger"
)

// RefreshJob keeps the dataset current: fetch the latest published
// bidding results, archive them, and rebuild the in-memory feature
// table. The archive step is skipped when no database is configured.
type RefreshJob struct {
	fetcher   *onemotoring.Client
	repo      *dataset.Repository
	store     *dataset.Store
	scenarios *scenario.Store
	config    *config.Config
	logger    *logger.Logger
}

// NewRefreshJob creates a new dataset refresh job. repo may be nil.
func NewRefreshJob(
	fetcher *onemotoring.Client,
	repo *dataset.Repository,
	store *dataset.Store,
	scenarios *scenario.Store,
	cfg *config.Config,
	log *logger.Logger,
) *RefreshJob {
	return &RefreshJob{
		fetcher:   fetcher,
		repo:      repo,
		store:     store,
		scenarios: scenarios,
		config:    cfg,
		logger:    log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "dataset_refresh"
}

// Schedule returns the cron schedule. COE results publish on bidding
// Wednesdays around 4 PM SGT; the default checks Wednesday evenings.
func (j *RefreshJob) Schedule() string {
	if j.config.Dataset.RefreshSchedule != "" {
		return j.config.Dataset.RefreshSchedule
	}
	return "0 0 18 * * 3"
}

// Run executes the refresh
func (j *RefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled dataset refresh")

	// 1. Fetch the latest published results
	records, err := j.fetcher.FetchLatestResults(ctx)
	if err != nil {
		return fmt.Errorf("fetch latest results: %w", err)
	}

	// 2. Archive them. Without an archive the reload below re-reads the
	// unchanged source and the fetched records go nowhere.
	if j.repo == nil {
		j.logger.WithField("records", len(records)).Warn(
			"No archive configured, fetched results are discarded")
	} else {
		written, err := j.repo.Upsert(ctx, records)
		if err != nil {
			return fmt.Errorf("archive results: %w", err)
		}
		j.logger.WithField("records", written).Info("Archived fetched results")
	}

	// 3. Rebuild the in-memory table wholesale
	if err := j.store.Reload(ctx); err != nil {
		return fmt.Errorf("reload dataset: %w", err)
	}
	j.scenarios.Clear()

	j.logger.Info("Scheduled dataset refresh completed successfully")
	return nil
}
