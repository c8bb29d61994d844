package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quantlab/portfolio-insight/internal/models"
	"github.com/quantlab/portfolio-insight/internal/narrative"
	"github.com/quantlab/portfolio-insight/internal/pipeline"
	"github.com/quantlab/portfolio-insight/pkg/logger"
)

// Analyzer runs an analysis request; satisfied by *pipeline.Runner.
type Analyzer interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Report, error)
}

// AnalysisHandler handles analysis endpoints
type AnalysisHandler struct {
	runner Analyzer
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(runner Analyzer) *AnalysisHandler {
	return &AnalysisHandler{runner: runner}
}

// Analyze handles POST /api/v1/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Symbols) == 0 {
		respondWithError(w, http.StatusBadRequest, "At least one symbol is required")
		return
	}

	report, err := h.runner.Run(r.Context(), req)
	if err != nil {
		logger.Error("Analysis run failed", logger.ErrorField(err))
		respondWithError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// RecommendHandler handles chart recommendation endpoints
type RecommendHandler struct {
	advisor narrative.Advisor
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(advisor narrative.Advisor) *RecommendHandler {
	return &RecommendHandler{advisor: advisor}
}

type recommendRequest struct {
	// Image is the base64-encoded PNG of the rendered chart.
	Image  string `json:"image"`
	Prompt string `json:"prompt,omitempty"`
}

// Recommend handles POST /api/v1/recommend
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	if h.advisor == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Recommendations are not configured")
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Image == "" {
		respondWithError(w, http.StatusBadRequest, "Chart image is required")
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Image must be base64-encoded")
		return
	}

	text, err := h.advisor.Recommend(r.Context(), image, req.Prompt)
	if err != nil {
		var remoteErr *models.RemoteServiceError
		if errors.As(err, &remoteErr) {
			logger.Error("Advisor call failed",
				logger.String("service", remoteErr.Service),
				logger.ErrorField(err),
			)
			respondWithError(w, http.StatusBadGateway, "Recommendation service unavailable")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Recommendation failed")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"recommendation": text,
	})
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
