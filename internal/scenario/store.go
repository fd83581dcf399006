package scenario

import (
	"sync"

	"github.com/lowkh/coewatch/internal/contracts"
)

// Store keeps one ScenarioInput per vehicle class so that switching
// categories restores that category's own defaults instead of leaking
// another category's edited values. It is owned by the application
// layer; the core pipeline never touches it.
type Store struct {
	mu    sync.RWMutex
	items map[string]contracts.ScenarioInput
}

// NewStore creates an empty scenario store
func NewStore() *Store {
	return &Store{
		items: make(map[string]contracts.ScenarioInput),
	}
}

// Get returns the stored scenario for a vehicle class, if any.
func (s *Store) Get(vehicleClass string) (contracts.ScenarioInput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.items[vehicleClass]
	return in, ok
}

// GetOrSeed returns the stored scenario for the class, seeding it from
// the class's latest record on first access.
func (s *Store) GetOrSeed(latest contracts.EngineeredRecord) contracts.ScenarioInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in, ok := s.items[latest.VehicleClass]; ok {
		return in
	}

	in := defaultsFrom(latest)
	s.items[latest.VehicleClass] = in
	return in
}

// Put stores an edited scenario for its vehicle class.
func (s *Store) Put(in contracts.ScenarioInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[in.VehicleClass] = in
}

// Reset restores a vehicle class to its latest-record defaults.
func (s *Store) Reset(latest contracts.EngineeredRecord) contracts.ScenarioInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := defaultsFrom(latest)
	s.items[latest.VehicleClass] = in
	return in
}

// Clear drops every stored scenario. Used after a dataset reload, when
// the latest records the defaults were seeded from may have changed.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]contracts.ScenarioInput)
}

func defaultsFrom(latest contracts.EngineeredRecord) contracts.ScenarioInput {
	quota := latest.Quota
	received := latest.BidsReceived
	success := latest.BidsSuccess
	biddingNo := latest.BiddingNo

	return contracts.ScenarioInput{
		VehicleClass: latest.VehicleClass,
		Quota:        &quota,
		BidsReceived: &received,
		BidsSuccess:  &success,
		BiddingNo:    &biddingNo,
	}
}
