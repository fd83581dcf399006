package dataset

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lowkh/coewatch/internal/contracts"
	"github.com/lowkh/coewatch/internal/features"
	"github.com/lowkh/coewatch/pkg/logger"
)

// Store holds the raw records and the engineered feature table, loaded
// once and served across requests. There is no invalidation other than
// process restart or an explicit Reload.
type Store struct {
	source  Source
	builder *features.Builder
	logger  *logger.Logger

	mu         sync.RWMutex
	records    []contracts.BiddingRecord
	engineered []contracts.EngineeredRecord
	loadedAt   time.Time
}

// NewStore creates a store over a dataset source
func NewStore(source Source, builder *features.Builder, log *logger.Logger) *Store {
	return &Store{
		source:  source,
		builder: builder,
		logger:  log.WithComponent("dataset.store"),
	}
}

// Load reads the dataset and builds the engineered table. Safe to call
// again at any time; readers see either the old table or the new one.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("dataset load failed: %w", err)
	}

	engineered := s.builder.Build(records)

	s.mu.Lock()
	s.records = records
	s.engineered = engineered
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.WithFields(map[string]interface{}{
		"records": len(records),
	}).Info("Dataset loaded and features built")

	return nil
}

// Reload rebuilds the table wholesale from the source.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Categories returns the sorted distinct vehicle classes.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var categories []string
	for _, r := range s.engineered {
		if _, ok := seen[r.VehicleClass]; !ok {
			seen[r.VehicleClass] = struct{}{}
			categories = append(categories, r.VehicleClass)
		}
	}

	sort.Strings(categories)
	return categories
}

// Latest returns the most recent engineered record for a vehicle class
// by (month, bidding_no) order.
func (s *Store) Latest(vehicleClass string) (contracts.EngineeredRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// The engineered table is sorted by (class, month, bidding_no), so
	// the last record of a class's run is its latest.
	var latest contracts.EngineeredRecord
	found := false
	for _, r := range s.engineered {
		if r.VehicleClass == vehicleClass {
			latest = r
			found = true
		}
	}
	return latest, found
}

// Engineered returns a copy of the full engineered table.
func (s *Store) Engineered() []contracts.EngineeredRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contracts.EngineeredRecord, len(s.engineered))
	copy(out, s.engineered)
	return out
}

// Len returns the number of engineered records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.engineered)
}

// LoadedAt returns when the table was last built.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
