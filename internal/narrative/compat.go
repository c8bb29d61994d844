package narrative

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quantlab/portfolio-insight/internal/config"
	"github.com/quantlab/portfolio-insight/internal/models"
)

// CompatAdvisor talks to any OpenAI-compatible chat-completions endpoint
// (self-hosted gateways, alternative vision-model vendors). It carries
// its own wire types so the endpoint does not need to match the official
// SDK's expectations.
type CompatAdvisor struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewCompatAdvisor creates an advisor for the configured base URL.
func NewCompatAdvisor(cfg config.NarrativeConfig) *CompatAdvisor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &CompatAdvisor{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

type compatContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type compatMessage struct {
	Role    string              `json:"role"`
	Content []compatContentPart `json:"content"`
}

type compatRequest struct {
	Model    string          `json:"model"`
	Messages []compatMessage `json:"messages"`
}

type compatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Recommend sends the chart image and prompt, returning the model's text.
func (a *CompatAdvisor) Recommend(ctx context.Context, image []byte, prompt string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("chart image is empty")
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}

	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
	imagePart := compatContentPart{Type: "image_url"}
	imagePart.ImageURL = &struct {
		URL string `json:"url"`
	}{URL: dataURI}

	payload, err := json.Marshal(compatRequest{
		Model: a.model,
		Messages: []compatMessage{{
			Role: "user",
			Content: []compatContentPart{
				{Type: "text", Text: prompt},
				imagePart,
			},
		}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", models.NewRemoteServiceError("compat", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewRemoteServiceError("compat", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", models.NewRemoteServiceError("compat",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var decoded compatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", models.NewRemoteServiceError("compat", fmt.Errorf("malformed response: %w", err))
	}
	if decoded.Error != nil {
		return "", models.NewRemoteServiceError("compat", errors.New(decoded.Error.Message))
	}
	if len(decoded.Choices) == 0 {
		return "", models.NewRemoteServiceError("compat", errors.New("response contained no choices"))
	}

	return decoded.Choices[0].Message.Content, nil
}
