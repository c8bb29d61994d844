package narrative

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/quantlab/portfolio-insight/internal/config"
	"github.com/quantlab/portfolio-insight/internal/models"
)

// OpenAIAdvisor requests recommendations from the OpenAI vision chat API.
type OpenAIAdvisor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIAdvisor creates an advisor backed by go-openai. A custom
// BaseURL (e.g. a proxy) is honored when set.
func NewOpenAIAdvisor(cfg config.NarrativeConfig) *OpenAIAdvisor {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OpenAIAdvisor{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: timeout,
	}
}

// Recommend sends the chart image and prompt, returning the model's text.
func (a *OpenAIAdvisor) Recommend(ctx context.Context, image []byte, prompt string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("chart image is empty")
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI, Detail: openai.ImageURLDetailAuto},
					},
				},
			},
		},
	})
	if err != nil {
		return "", models.NewRemoteServiceError("openai", err)
	}
	if len(resp.Choices) == 0 {
		return "", models.NewRemoteServiceError("openai", fmt.Errorf("response contained no choices"))
	}

	return resp.Choices[0].Message.Content, nil
}
