package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tradedeck/backend/internal/api/handlers"
	"github.com/tradedeck/backend/internal/api/middleware"
	"github.com/tradedeck/backend/pkg/logger"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Setups    *handlers.SetupHandler
	Scores    *handlers.ScoreHandler
	Decisions *handlers.DecisionHandler
	Market    *handlers.MarketHandler
	Reports   *handlers.ReportHandler
	Jobs      *handlers.JobHandler
	Stream    *ScoreStream
	Auth      *middleware.Auth
}

// NewRouter creates and configures the HTTP router. Read routes are open;
// mutating routes go through the JWT guard.
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Live score stream
	r.HandleFunc("/ws/scores", h.Stream.HandleWS).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Setups
	api.HandleFunc("/setups", h.Setups.List).Methods("GET")
	api.HandleFunc("/setups/validate", h.Setups.Validate).Methods("POST")
	api.HandleFunc("/setups/{id:[0-9]+}", h.Setups.Get).Methods("GET")
	api.Handle("/setups", h.Auth.Require(http.HandlerFunc(h.Setups.Create))).Methods("POST")
	api.Handle("/setups/{id:[0-9]+}", h.Auth.Require(http.HandlerFunc(h.Setups.Update))).Methods("PUT")
	api.Handle("/setups/{id:[0-9]+}", h.Auth.Require(http.HandlerFunc(h.Setups.Delete))).Methods("DELETE")

	// Scores
	api.HandleFunc("/scores/latest", h.Scores.Latest).Methods("GET")
	api.HandleFunc("/scores/history", h.Scores.History).Methods("GET")

	// Decisions
	api.Handle("/setups/{id:[0-9]+}/decide", h.Auth.Require(http.HandlerFunc(h.Decisions.Decide))).Methods("POST")
	api.HandleFunc("/decisions/preview", h.Decisions.Preview).Methods("POST")
	api.HandleFunc("/decisions", h.Decisions.List).Methods("GET")

	// Market data
	api.HandleFunc("/market/latest", h.Market.Latest).Methods("GET")
	api.HandleFunc("/market/{name}/history", h.Market.History).Methods("GET")
	api.Handle("/market/collect", h.Auth.Require(http.HandlerFunc(h.Jobs.Collect))).Methods("POST")

	// Reports
	api.HandleFunc("/reports/{kind}/latest", h.Reports.Latest).Methods("GET")
	api.HandleFunc("/reports/{kind}", h.Reports.List).Methods("GET")
	api.Handle("/reports/{kind}/generate", h.Auth.Require(http.HandlerFunc(h.Reports.Generate))).Methods("POST")

	// Jobs
	api.HandleFunc("/jobs", h.Jobs.List).Methods("GET")
	api.HandleFunc("/jobs/stats", h.Jobs.Stats).Methods("GET")
	api.HandleFunc("/jobs/{name}/history", h.Jobs.History).Methods("GET")
	api.Handle("/jobs/{name}/run", h.Auth.Require(http.HandlerFunc(h.Jobs.Run))).Methods("POST")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "tradedeck-api",
	})
}

// loggingMiddleware logs HTTP requests.
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

// recoveryMiddleware recovers from handler panics.
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
