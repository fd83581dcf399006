package contracts

// FeatureRow is the ordered set of fields the trained regression model
// consumes. Field names and order must match exactly what the model was
// fit on; FeatureColumns and Values preserve that order.
type FeatureRow struct {
	Quota             float64 `json:"quota"`
	BidsSuccess       float64 `json:"bids_success"`
	BidsReceived      float64 `json:"bids_received"`
	DemandSupplyRatio float64 `json:"demand_supply_ratio"`
	SuccessRate       float64 `json:"success_rate"`
	Year              int     `json:"year"`
	MonthNum          int     `json:"month_num"`
	Quarter           int     `json:"quarter"`
	PremiumLag1       float64 `json:"premium_lag1"`
	PremiumLag2       float64 `json:"premium_lag2"`
	PremiumLag3       float64 `json:"premium_lag3"`
	PremiumRollMean3  float64 `json:"premium_roll_mean_3"`
	PremiumRollStd3   float64 `json:"premium_roll_std_3"`
	BiddingNo         int     `json:"bidding_no"`
	VehicleClass      string  `json:"vehicle_class"`
}

// FeatureColumns returns the model's column names in training order.
func FeatureColumns() []string {
	return []string{
		"quota", "bids_success", "bids_received",
		"demand_supply_ratio", "success_rate",
		"year", "month_num", "quarter",
		"premium_lag1", "premium_lag2", "premium_lag3",
		"premium_roll_mean_3", "premium_roll_std_3",
		"bidding_no", "vehicle_class",
	}
}

// Values returns the row's values in the same order as FeatureColumns.
func (r FeatureRow) Values() []interface{} {
	return []interface{}{
		r.Quota, r.BidsSuccess, r.BidsReceived,
		r.DemandSupplyRatio, r.SuccessRate,
		r.Year, r.MonthNum, r.Quarter,
		r.PremiumLag1, r.PremiumLag2, r.PremiumLag3,
		r.PremiumRollMean3, r.PremiumRollStd3,
		r.BiddingNo, r.VehicleClass,
	}
}
