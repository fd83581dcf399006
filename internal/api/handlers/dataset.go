package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/lowkh/coewatch/internal/dataset"
	"github.com/lowkh/coewatch/internal/scenario"
	"github.com/lowkh/coewatch/pkg/logger"
)

// DatasetHandler handles dataset and category endpoints.
type DatasetHandler struct {
	store     *dataset.Store
	scenarios *scenario.Store
	logger    *logger.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(store *dataset.Store, scenarios *scenario.Store, log *logger.Logger) *DatasetHandler {
	return &DatasetHandler{
		store:     store,
		scenarios: scenarios,
		logger:    log,
	}
}

// Categories lists the vehicle classes present in the dataset.
// GET /api/categories
func (h *DatasetHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.store.Categories(),
	})
}

// Latest returns the most recent engineered record for a vehicle class,
// the default context for scenario inputs.
// GET /api/categories/{class}/latest
func (h *DatasetHandler) Latest(w http.ResponseWriter, r *http.Request) {
	class := mux.Vars(r)["class"]

	latest, ok := h.store.Latest(class)
	if !ok {
		respondError(w, http.StatusNotFound, "no records found for this vehicle class")
		return
	}

	respondJSON(w, http.StatusOK, latest)
}

// Reload rebuilds the engineered table wholesale from the source and
// drops stale scenario defaults.
// POST /api/dataset/reload
func (h *DatasetHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reload(r.Context()); err != nil {
		h.logger.WithError(err).Error("Dataset reload failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.scenarios.Clear()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "reloaded",
		"records": h.store.Len(),
	})
}

// Health reports service and dataset status.
// GET /health
func (h *DatasetHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"service":   "coewatch-api",
		"records":   h.store.Len(),
		"loaded_at": h.store.LoadedAt().Format(time.RFC3339),
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
