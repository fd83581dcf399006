package contracts

import (
	"fmt"
	"strings"
)

// SchemaError reports required dataset columns that are absent. It is
// fatal to the current load; no processing happens after it.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ValidationError reports a scenario whose overridden bids_success
// exceeds bids_received. The resolver rejects such scenarios; it never
// clamps.
type ValidationError struct {
	BidsSuccess  float64
	BidsReceived float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bids_success (%g) exceeds bids_received (%g)", e.BidsSuccess, e.BidsReceived)
}

// PredictionError wraps a failure returned by the external model for a
// malformed or out-of-range row.
type PredictionError struct {
	Cause error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("model prediction failed: %v", e.Cause)
}

func (e *PredictionError) Unwrap() error {
	return e.Cause
}
