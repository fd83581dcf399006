package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lowkh/coewatch/internal/contracts"
	"github.com/lowkh/coewatch/internal/dataset"
	"github.com/lowkh/coewatch/internal/scenario"
	"github.com/lowkh/coewatch/pkg/logger"
	"github.com/lowkh/coewatch/pkg/redis"
)

// PredictHandler handles prediction and scenario endpoints.
type PredictHandler struct {
	store     *dataset.Store
	resolver  *scenario.Resolver
	scenarios *scenario.Store
	predictor contracts.Predictor
	cache     *redis.Cache
	logger    *logger.Logger
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(
	store *dataset.Store,
	resolver *scenario.Resolver,
	scenarios *scenario.Store,
	predictor contracts.Predictor,
	cache *redis.Cache,
	log *logger.Logger,
) *PredictHandler {
	return &PredictHandler{
		store:     store,
		resolver:  resolver,
		scenarios: scenarios,
		predictor: predictor,
		cache:     cache,
		logger:    log,
	}
}

// PredictResponse is the prediction endpoint payload.
type PredictResponse struct {
	VehicleClass string                     `json:"vehicle_class"`
	Prediction   float64                    `json:"prediction"`
	Warnings     []string                   `json:"warnings,omitempty"`
	FeatureRow   contracts.FeatureRow       `json:"feature_row"`
	Latest       contracts.EngineeredRecord `json:"latest"`
}

// Predict runs one prediction for a vehicle class with optional
// scenario overrides.
// POST /api/predict
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in contracts.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.VehicleClass == "" {
		respondError(w, http.StatusBadRequest, "vehicle_class is required")
		return
	}

	latest, ok := h.store.Latest(in.VehicleClass)
	if !ok {
		respondError(w, http.StatusNotFound, "no records found for this vehicle class")
		return
	}

	// Remember the edits per category so switching back restores them.
	h.scenarios.GetOrSeed(latest)
	if in.HasOverrides() {
		h.scenarios.Put(in)
	}

	row, err := h.resolver.Resolve(latest, in)
	if err != nil {
		var verr *contracts.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		h.logger.WithError(err).Error("Scenario resolve failed")
		respondError(w, http.StatusInternalServerError, "failed to resolve scenario")
		return
	}

	warnings := h.resolver.Warnings(row)

	cacheKey := redis.PredictionKey(in.VehicleClass, rowHash(row))
	var cached PredictResponse
	if found, _ := h.cache.Get(ctx, cacheKey, &cached); found {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	prediction, err := h.predictor.Predict(ctx, row)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"vehicle_class": in.VehicleClass,
		}).Error("Prediction failed")
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	resp := PredictResponse{
		VehicleClass: in.VehicleClass,
		Prediction:   prediction,
		Warnings:     warnings,
		FeatureRow:   row,
		Latest:       latest,
	}

	if err := h.cache.Set(ctx, cacheKey, resp, redis.TTLPrediction); err != nil {
		h.logger.WithError(err).Warn("Failed to cache prediction")
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetScenario returns the stored (or freshly seeded) scenario for a
// vehicle class.
// GET /api/categories/{class}/scenario
func (h *PredictHandler) GetScenario(w http.ResponseWriter, r *http.Request) {
	class := mux.Vars(r)["class"]

	latest, ok := h.store.Latest(class)
	if !ok {
		respondError(w, http.StatusNotFound, "no records found for this vehicle class")
		return
	}

	respondJSON(w, http.StatusOK, h.scenarios.GetOrSeed(latest))
}

// PutScenario stores edited scenario inputs for a vehicle class.
// PUT /api/categories/{class}/scenario
func (h *PredictHandler) PutScenario(w http.ResponseWriter, r *http.Request) {
	class := mux.Vars(r)["class"]

	var in contracts.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.VehicleClass = class

	if _, ok := h.store.Latest(class); !ok {
		respondError(w, http.StatusNotFound, "no records found for this vehicle class")
		return
	}

	h.scenarios.Put(in)
	respondJSON(w, http.StatusOK, in)
}

// ResetScenario restores a vehicle class to its latest-record defaults.
// POST /api/categories/{class}/scenario/reset
func (h *PredictHandler) ResetScenario(w http.ResponseWriter, r *http.Request) {
	class := mux.Vars(r)["class"]

	latest, ok := h.store.Latest(class)
	if !ok {
		respondError(w, http.StatusNotFound, "no records found for this vehicle class")
		return
	}

	respondJSON(w, http.StatusOK, h.scenarios.Reset(latest))
}

// rowHash builds a deterministic key fragment for a resolved row.
func rowHash(row contracts.FeatureRow) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%v", row.Values())
	return fmt.Sprintf("%x", h.Sum64())
}
