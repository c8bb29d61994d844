package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/portfolio-insight/internal/models"
	"github.com/quantlab/portfolio-insight/internal/pipeline"
)

type stubAnalyzer struct {
	report *pipeline.Report
	err    error
}

func (s *stubAnalyzer) Run(ctx context.Context, req pipeline.Request) (*pipeline.Report, error) {
	return s.report, s.err
}

type stubAdvisor struct {
	text string
	err  error
}

func (s *stubAdvisor) Recommend(ctx context.Context, image []byte, prompt string) (string, error) {
	return s.text, s.err
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAnalyze_Success(t *testing.T) {
	analyzer := &stubAnalyzer{report: &pipeline.Report{
		SessionID:   "session-1",
		GeneratedAt: time.Now().UTC(),
	}}
	handler := NewAnalysisHandler(analyzer)

	rec := postJSON(t, handler.Analyze, pipeline.Request{Symbols: []string{"AAPL"}})

	assert.Equal(t, http.StatusOK, rec.Code)

	var report pipeline.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "session-1", report.SessionID)
}

func TestAnalyze_EmptySymbols(t *testing.T) {
	handler := NewAnalysisHandler(&stubAnalyzer{})

	rec := postJSON(t, handler.Analyze, pipeline.Request{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_InvalidBody(t *testing.T) {
	handler := NewAnalysisHandler(&stubAnalyzer{})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_RunnerError(t *testing.T) {
	handler := NewAnalysisHandler(&stubAnalyzer{err: errors.New("boom")})

	rec := postJSON(t, handler.Analyze, pipeline.Request{Symbols: []string{"AAPL"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecommend_Success(t *testing.T) {
	handler := NewRecommendHandler(&stubAdvisor{text: "Hold."})

	rec := postJSON(t, handler.Recommend, map[string]string{
		"image": base64.StdEncoding.EncodeToString([]byte{0x89, 0x50}),
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hold.", resp["recommendation"])
}

func TestRecommend_MissingImage(t *testing.T) {
	handler := NewRecommendHandler(&stubAdvisor{})

	rec := postJSON(t, handler.Recommend, map[string]string{"prompt": "look"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommend_BadBase64(t *testing.T) {
	handler := NewRecommendHandler(&stubAdvisor{})

	rec := postJSON(t, handler.Recommend, map[string]string{"image": "!!not-base64!!"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommend_RemoteFailureIsBadGateway(t *testing.T) {
	handler := NewRecommendHandler(&stubAdvisor{
		err: models.NewRemoteServiceError("openai", errors.New("rate limited")),
	})

	rec := postJSON(t, handler.Recommend, map[string]string{
		"image": base64.StdEncoding.EncodeToString([]byte{0x01}),
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRecommend_NoAdvisorConfigured(t *testing.T) {
	handler := NewRecommendHandler(nil)

	rec := postJSON(t, handler.Recommend, map[string]string{
		"image": base64.StdEncoding.EncodeToString([]byte{0x01}),
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
