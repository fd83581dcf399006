package contracts

// ScenarioInput carries optional user overrides for one prediction
// request. Nil fields keep the latest record's values. Scenario inputs
// are ephemeral; they never mutate the engineered history.
type ScenarioInput struct {
	VehicleClass string   `json:"vehicle_class"`
	Quota        *float64 `json:"quota,omitempty"`
	BidsReceived *float64 `json:"bids_received,omitempty"`
	BidsSuccess  *float64 `json:"bids_success,omitempty"`
	BiddingNo    *int     `json:"bidding_no,omitempty"`
}

// HasOverrides reports whether any raw quantity is overridden.
func (s ScenarioInput) HasOverrides() bool {
	return s.Quota != nil || s.BidsReceived != nil || s.BidsSuccess != nil || s.BiddingNo != nil
}
