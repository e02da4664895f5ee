package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/mould-triage/internal/domain/ai"
	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
	"github.com/bryanwahyu/mould-triage/internal/infra/ai/prompt"
)

const (
	maxTokens         = 800
	defaultAPIVersion = "2025-01-01-preview"
)

// Config describes an Azure OpenAI deployment.
type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	// HTTPClient is optional; tests point it at an httptest server
	HTTPClient *http.Client
}

type Client struct {
	*openai.Client
	Model string
}

// NewAzureClient builds a client for an Azure OpenAI deployment.
// The deployment name is sent as-is instead of the library's default model mapping.
func NewAzureClient(c Config) (*Client, error) {
	if strings.TrimSpace(c.Endpoint) == "" {
		return nil, fmt.Errorf("%w: vision endpoint", triage.ErrMissingConfiguration)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("%w: vision api key", triage.ErrMissingConfiguration)
	}
	if c.Deployment == "" {
		return nil, fmt.Errorf("%w: vision deployment", triage.ErrMissingConfiguration)
	}

	cfg := openai.DefaultAzureConfig(c.APIKey, strings.TrimRight(c.Endpoint, "/"))
	cfg.APIVersion = c.APIVersion
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	deployment := c.Deployment
	cfg.AzureModelMapperFunc = func(string) string { return deployment }
	if c.HTTPClient != nil {
		cfg.HTTPClient = c.HTTPClient
	}

	return &Client{Client: openai.NewClientWithConfig(cfg), Model: deployment}, nil
}

// Describe sends the mould detector instruction and the image, and returns the
// answer text unaltered.
func (c *Client) Describe(ctx context.Context, imageDataURI string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: 1,
		TopP:        1,
		Stream:      false,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageDataURI},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt.GetUserPrompt(),
					},
				},
			},
		},
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		if isQuota(err) {
			return "", fmt.Errorf("%w: %w: %v", triage.ErrModelCallFailed, domai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("%w: failed to create chat completion: %v", triage.ErrModelCallFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %w", triage.ErrModelCallFailed, domai.ErrEmptyResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

func isQuota(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	return errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests
}
