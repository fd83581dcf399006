package contracts

import "context"

// Predictor is the external trained-model collaborator. The pipeline
// only produces rows; it never trains or introspects the model.
type Predictor interface {
	Predict(ctx context.Context, row FeatureRow) (float64, error)
}
