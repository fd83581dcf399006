package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/lowkh/coewatch/internal/api/handlers"
	"github.com/lowkh/coewatch/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(predictHandler *handlers.PredictHandler, datasetHandler *handlers.DatasetHandler, jobsHandler *handlers.JobsHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", datasetHandler.Health).Methods("GET")

	// API
	api := r.PathPrefix("/api").Subrouter()

	// Prediction
	api.HandleFunc("/predict", predictHandler.Predict).Methods("POST")

	// Categories and scenario state
	api.HandleFunc("/categories", datasetHandler.Categories).Methods("GET")
	api.HandleFunc("/categories/{class}/latest", datasetHandler.Latest).Methods("GET")
	api.HandleFunc("/categories/{class}/scenario", predictHandler.GetScenario).Methods("GET")
	api.HandleFunc("/categories/{class}/scenario", predictHandler.PutScenario).Methods("PUT")
	api.HandleFunc("/categories/{class}/scenario/reset", predictHandler.ResetScenario).Methods("POST")

	// Dataset management
	api.HandleFunc("/dataset/reload", datasetHandler.Reload).Methods("POST")

	// Scheduled jobs
	api.HandleFunc("/jobs/{name}/run", jobsHandler.Run).Methods("POST")
	api.HandleFunc("/jobs/{name}/history", jobsHandler.History).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
