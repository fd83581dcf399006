package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowkh/coewatch/internal/contracts"
	"github.com/lowkh/coewatch/pkg/config"
	"github.com/lowkh/coewatch/pkg/httputil"
	"github.com/lowkh/coewatch/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func newTestClient(baseURL string) *Client {
	log := testLogger()
	return NewClient(baseURL, httputil.New(log).DisableRetry(), log)
}

func sampleRow() contracts.FeatureRow {
	return contracts.FeatureRow{
		Quota:             1050,
		BidsSuccess:       1010,
		BidsReceived:      1700,
		DemandSupplyRatio: 1700.0 / 1050.0,
		SuccessRate:       1010.0 / 1700.0,
		Year:              2024,
		MonthNum:          2,
		Quarter:           1,
		PremiumLag1:       105000,
		PremiumLag2:       110000,
		PremiumLag3:       100000,
		PremiumRollMean3:  105000,
		PremiumRollStd3:   5000,
		BiddingNo:         2,
		VehicleClass:      "Category A",
	}
}

func TestClient_Predict(t *testing.T) {
	var captured struct {
		Columns []string        `json:"columns"`
		Data    [][]interface{} `json:"data"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/predict", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"prediction": 104532.5})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	prediction, err := client.Predict(context.Background(), sampleRow())
	require.NoError(t, err)
	assert.Equal(t, 104532.5, prediction)

	// Column order on the wire must match the order the model was fit on.
	assert.Equal(t, contracts.FeatureColumns(), captured.Columns)
	require.Len(t, captured.Data, 1)
	assert.Len(t, captured.Data[0], len(contracts.FeatureColumns()))
	assert.Equal(t, "Category A", captured.Data[0][len(captured.Data[0])-1])
}

func TestClient_PredictServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Predict(context.Background(), sampleRow())
	require.Error(t, err)

	var perr *contracts.PredictionError
	require.True(t, errors.As(err, &perr), "want PredictionError, got %T", err)
	assert.Contains(t, perr.Error(), "503")
}

func TestClient_PredictModelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"error": "feature mismatch"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Predict(context.Background(), sampleRow())
	require.Error(t, err)

	var perr *contracts.PredictionError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Error(), "feature mismatch")
}

func TestClient_PredictUnreachable(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.Predict(context.Background(), sampleRow())
	require.Error(t, err)

	var perr *contracts.PredictionError
	assert.True(t, errors.As(err, &perr))
}
