package features

import (
	"sort"

	"github.com/lowkh/coewatch/internal/contracts"
	"github.com/lowkh/coewatch/pkg/logger"
)

// rollingWindow is the number of trailing positions the rolling
// premium statistics cover.
const rollingWindow = 3

// Builder derives the engineered feature table from raw bidding records.
type Builder struct {
	logger *logger.Logger
}

// NewBuilder creates a new feature builder
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{
		logger: log.WithComponent("features.builder"),
	}
}

// Build transforms raw records into engineered records. It is a pure
// function of its input: records are copied, sorted by (vehicle_class,
// month, bidding_no) ascending, and each class's sub-sequence gets
// ratio, calendar, lag and rolling features in chronological order.
// This ordering is load-bearing for every lag and rolling value.
func (b *Builder) Build(records []contracts.BiddingRecord) []contracts.EngineeredRecord {
	sorted := make([]contracts.BiddingRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].VehicleClass != sorted[j].VehicleClass {
			return sorted[i].VehicleClass < sorted[j].VehicleClass
		}
		return sorted[i].Before(sorted[j])
	})

	engineered := make([]contracts.EngineeredRecord, 0, len(sorted))

	// classStart marks where the current vehicle class's series begins,
	// so lag lookups never cross a class boundary.
	classStart := 0
	classes := 0

	for i, rec := range sorted {
		if i == 0 || rec.VehicleClass != sorted[i-1].VehicleClass {
			classStart = i
			classes++
		}

		er := contracts.EngineeredRecord{BiddingRecord: rec}

		er.DemandSupplyRatio = Ratio(rec.BidsReceived, rec.Quota)
		er.SuccessRate = Ratio(rec.BidsSuccess, rec.BidsReceived)

		er.Year = rec.Month.Year()
		er.MonthNum = int(rec.Month.Month())
		er.Quarter = (int(rec.Month.Month())-1)/3 + 1

		// Position within this class's own ordered sequence.
		pos := i - classStart
		if pos >= 1 {
			er.PremiumLag1 = sorted[i-1].Premium
		}
		if pos >= 2 {
			er.PremiumLag2 = sorted[i-2].Premium
		}
		if pos >= 3 {
			er.PremiumLag3 = sorted[i-3].Premium
		}

		// Rolling stats aggregate lag1 values over the trailing window
		// ending at this position. Only previously observed premiums
		// enter the window; this round's own premium never does.
		window := lag1Window(sorted, classStart, i)
		er.PremiumRollMean3 = Mean(window)
		er.PremiumRollStd3 = SampleStd(window)

		engineered = append(engineered, er)
	}

	b.logger.WithFields(map[string]interface{}{
		"records": len(engineered),
		"classes": classes,
	}).Debug("Built engineered feature table")

	return engineered
}

// lag1Window collects the defined lag1 values (each position's previous
// round premium) for the window of up to rollingWindow positions ending
// at i. The window shrinks near the start of the class's series; the
// first position of a class has no lag1 and contributes nothing.
func lag1Window(records []contracts.BiddingRecord, classStart, i int) []float64 {
	start := i - rollingWindow + 1
	if start < classStart {
		start = classStart
	}

	var values []float64
	for p := start; p <= i; p++ {
		if p > classStart {
			values = append(values, records[p-1].Premium)
		}
	}
	return values
}
