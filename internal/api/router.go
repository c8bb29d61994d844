package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quantlab/portfolio-insight/internal/narrative"
)

// NewRouter wires the API routes. Middleware is applied by the caller so
// tests can exercise handlers directly. A nil advisor leaves the
// recommend endpoint responding 503.
func NewRouter(runner Analyzer, advisor narrative.Advisor) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()

	analysis := NewAnalysisHandler(runner)
	v1.HandleFunc("/analyze", analysis.Analyze).Methods(http.MethodPost, http.MethodOptions)

	recommend := NewRecommendHandler(advisor)
	v1.HandleFunc("/recommend", recommend.Recommend).Methods(http.MethodPost, http.MethodOptions)

	return router
}
