// Package openai generates structured answers with the OpenAI chat API, or
// any compatible endpoint set through BaseURL.
package openai

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds the credential and endpoint. APIKey is required.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService requests a json_schema response format so the reply is the
// object itself.
type LLMService struct {
	client *openai.Client
	model  string
}

// NewLLMService creates an OpenAI client. No request is made.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required: %w", domain.ErrServiceUnavailable)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimSuffix(cmp.Or(cfg.BaseURL, DefaultBaseURL), "/")
	clientCfg.HTTPClient = &http.Client{Timeout: cmp.Or(cfg.Timeout, DefaultLLMTimeout)}

	return &LLMService{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cmp.Or(cfg.Model, DefaultLLMModel),
	}, nil
}

// GenerateStructured asks the model for a JSON object matching schema.
func (s *LLMService) GenerateStructured(
	ctx context.Context,
	prompt string,
	schema driven.ResponseSchema,
) (string, error) {
	rawSchema, err := json.Marshal(schema.JSONSchema())
	if err != nil {
		return "", fmt.Errorf("openai: marshal schema: %w", err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   cmp.Or(schema.Name, "response"),
				Schema: json.RawMessage(rawSchema),
			},
		},
	})
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return wrapError(err)
	}
	return nil
}

func (s *LLMService) Close() error {
	return nil
}

// wrapError marks authentication failures as unavailable.
func wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && (apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden) {
		return fmt.Errorf("openai: %w: %s", domain.ErrServiceUnavailable, apiErr.Message)
	}
	return fmt.Errorf("openai: %w", err)
}

