package narrative

import (
	"context"
	"fmt"

	"github.com/quantlab/portfolio-insight/internal/config"
)

// DefaultPrompt is the instruction sent with a chart image when the
// caller does not supply one.
const DefaultPrompt = "You are a technical analyst. Study this stock chart, " +
	"including the moving averages, Bollinger bands and forecast overlay, " +
	"and give a short buy, hold or sell opinion with your reasoning."

// Advisor is the hosted vision-model capability: given a rendered chart
// image and an instructional prompt, produce a free-text recommendation.
// Failures surface as *models.RemoteServiceError with the cause
// preserved; implementations never substitute a default answer.
type Advisor interface {
	Recommend(ctx context.Context, image []byte, prompt string) (string, error)
}

// NewAdvisor builds the provider selected by configuration.
func NewAdvisor(cfg config.NarrativeConfig) (Advisor, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIAdvisor(cfg), nil
	case "compat":
		return NewCompatAdvisor(cfg), nil
	default:
		return nil, fmt.Errorf("unknown narrative provider %q", cfg.Provider)
	}
}
