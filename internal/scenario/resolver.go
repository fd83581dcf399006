package scenario

import (
	"github.com/lowkh/coewatch/internal/contracts"
	"github.com/lowkh/coewatch/internal/features"
	"github.com/lowkh/coewatch/pkg/logger"
)

// Resolver produces the final model input row from a category's latest
// engineered record plus optional user overrides. It recomputes the two
// ratio features from the final quantities and leaves every historical
// feature (calendar, lags, rolling stats) untouched.
type Resolver struct {
	logger *logger.Logger
}

// NewResolver creates a new scenario resolver
func NewResolver(log *logger.Logger) *Resolver {
	return &Resolver{
		logger: log.WithComponent("scenario.resolver"),
	}
}

// Resolve applies the scenario's overrides on top of latest and returns
// the feature row the model consumes. The input record is copied; the
// engineered history is never mutated.
//
// Policy: a scenario whose bids_success exceeds bids_received is
// rejected with a contracts.ValidationError. Values are never clamped.
func (r *Resolver) Resolve(latest contracts.EngineeredRecord, in contracts.ScenarioInput) (contracts.FeatureRow, error) {
	quota := latest.Quota
	received := latest.BidsReceived
	success := latest.BidsSuccess
	biddingNo := latest.BiddingNo

	if in.Quota != nil {
		quota = *in.Quota
	}
	if in.BidsReceived != nil {
		received = *in.BidsReceived
	}
	if in.BidsSuccess != nil {
		success = *in.BidsSuccess
	}
	if in.BiddingNo != nil {
		biddingNo = *in.BiddingNo
	}

	if success > received {
		return contracts.FeatureRow{}, &contracts.ValidationError{
			BidsSuccess:  success,
			BidsReceived: received,
		}
	}

	row := contracts.FeatureRow{
		Quota:        quota,
		BidsSuccess:  success,
		BidsReceived: received,

		// Always derived from the final quantities, never carried over.
		DemandSupplyRatio: features.Ratio(received, quota),
		SuccessRate:       features.Ratio(success, received),

		// Observed history; not recomputed under a hypothetical scenario.
		Year:             latest.Year,
		MonthNum:         latest.MonthNum,
		Quarter:          latest.Quarter,
		PremiumLag1:      latest.PremiumLag1,
		PremiumLag2:      latest.PremiumLag2,
		PremiumLag3:      latest.PremiumLag3,
		PremiumRollMean3: latest.PremiumRollMean3,
		PremiumRollStd3:  latest.PremiumRollStd3,

		BiddingNo:    biddingNo,
		VehicleClass: latest.VehicleClass,
	}

	r.logger.WithFields(map[string]interface{}{
		"vehicle_class": latest.VehicleClass,
		"overridden":    in.HasOverrides(),
	}).Debug("Resolved scenario into feature row")

	return row, nil
}

// Warnings returns non-fatal notes about an unusual but allowed
// scenario, surfaced to the caller alongside the prediction.
func (r *Resolver) Warnings(row contracts.FeatureRow) []string {
	var warnings []string

	if row.Quota == 0 {
		warnings = append(warnings, "quota is 0: demand/supply ratio is treated as 0")
	}
	if row.BidsReceived == 0 && row.BidsSuccess == 0 {
		warnings = append(warnings, "no bids received: success rate is treated as 0")
	}

	return warnings
}
