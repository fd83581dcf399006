package model

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lowkh/coewatch/internal/contracts"
	"github.com/lowkh/coewatch/pkg/httputil"
	"github.com/lowkh/coewatch/pkg/logger"
)

// Client calls the external model server that holds the trained
// regression model. The pipeline only owns producing the row; the model
// owns everything else.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

var _ contracts.Predictor = (*Client)(nil)

// NewClient creates a new model server client
func NewClient(baseURL string, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("model.client"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// predictRequest uses split orientation so the column order the model
// was fit on is explicit on the wire.
type predictRequest struct {
	Columns []string        `json:"columns"`
	Data    [][]interface{} `json:"data"`
}

type predictResponse struct {
	Prediction float64 `json:"prediction"`
	Error      string  `json:"error,omitempty"`
}

// Predict sends one feature row and returns the predicted premium. Any
// failure (transport, schema mismatch rejected by the server) surfaces
// as a contracts.PredictionError.
func (c *Client) Predict(ctx context.Context, row contracts.FeatureRow) (float64, error) {
	req := predictRequest{
		Columns: contracts.FeatureColumns(),
		Data:    [][]interface{}{row.Values()},
	}

	resp, err := c.httpClient.PostJSON(ctx, c.baseURL+"/predict", req)
	if err != nil {
		return 0, &contracts.PredictionError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &contracts.PredictionError{Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return 0, &contracts.PredictionError{
			Cause: fmt.Errorf("model server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var pr predictResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return 0, &contracts.PredictionError{Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	if pr.Error != "" {
		return 0, &contracts.PredictionError{Cause: fmt.Errorf("model error: %s", pr.Error)}
	}

	c.logger.WithFields(map[string]interface{}{
		"vehicle_class": row.VehicleClass,
		"prediction":    pr.Prediction,
	}).Debug("Model prediction received")

	return pr.Prediction, nil
}
