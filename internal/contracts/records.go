package contracts

import "time"

// BiddingRecord is one historical COE auction round for a vehicle class.
// Records for the same vehicle class form an independent time series
// ordered by (Month, BiddingNo) ascending.
type BiddingRecord struct {
	VehicleClass string    `json:"vehicle_class"`
	Month        time.Time `json:"month"`
	BiddingNo    int       `json:"bidding_no"`
	Quota        float64   `json:"quota"`
	BidsReceived float64   `json:"bids_received"`
	BidsSuccess  float64   `json:"bids_success"`
	Premium      float64   `json:"premium"`
}

// EngineeredRecord is a BiddingRecord plus the derived features the model
// was trained on. Engineered records are immutable once built; scenario
// overrides are always applied to a copy.
type EngineeredRecord struct {
	BiddingRecord

	DemandSupplyRatio float64 `json:"demand_supply_ratio"`
	SuccessRate       float64 `json:"success_rate"`
	Year              int     `json:"year"`
	MonthNum          int     `json:"month_num"`
	Quarter           int     `json:"quarter"`

	// Lag and rolling features over the vehicle class's own chronological
	// order. Positions without enough history are filled with 0.
	PremiumLag1      float64 `json:"premium_lag1"`
	PremiumLag2      float64 `json:"premium_lag2"`
	PremiumLag3      float64 `json:"premium_lag3"`
	PremiumRollMean3 float64 `json:"premium_roll_mean_3"`
	PremiumRollStd3  float64 `json:"premium_roll_std_3"`
}

// Before reports whether r sorts before other within the same vehicle
// class: by month, then by bidding number.
func (r BiddingRecord) Before(other BiddingRecord) bool {
	if !r.Month.Equal(other.Month) {
		return r.Month.Before(other.Month)
	}
	return r.BiddingNo < other.BiddingNo
}
