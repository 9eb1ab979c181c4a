// Package anthropic generates structured answers with the Anthropic Messages API.
package anthropic

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/llm/rest"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"
)

// Config holds the credential and endpoint. APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService forces a single tool whose input schema is the response
// schema, so the reply arrives as the tool's input object.
type LLMService struct {
	api   *rest.Client
	model string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

type toolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type messagesRequest struct {
	Model      string      `json:"model"`
	Messages   []message   `json:"messages"`
	MaxTokens  int         `json:"max_tokens"`
	Tools      []tool      `json:"tools,omitempty"`
	ToolChoice *toolChoice `json:"tool_choice,omitempty"`
}

type contentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text"`
	Input json.RawMessage `json:"input"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMService creates an Anthropic client. No request is made.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required: %w", domain.ErrServiceUnavailable)
	}
	return &LLMService{
		api: rest.New(rest.Config{
			BaseURL: cmp.Or(cfg.BaseURL, DefaultBaseURL),
			Timeout: cmp.Or(cfg.Timeout, DefaultTimeout),
			Headers: map[string]string{
				"x-api-key":         cfg.APIKey,
				"anthropic-version": anthropicVersion,
			},
		}),
		model: cmp.Or(cfg.Model, DefaultModel),
	}, nil
}

// GenerateStructured asks the model for a JSON object matching schema.
func (s *LLMService) GenerateStructured(ctx context.Context, prompt string, schema driven.ResponseSchema) (string, error) {
	name := cmp.Or(schema.Name, "respond")
	body, err := s.api.Post(ctx, "/v1/messages", messagesRequest{
		Model:     s.model,
		Messages:  []message{{Role: "user", Content: prompt}},
		MaxTokens: DefaultMaxTokens,
		Tools: []tool{{
			Name:        name,
			Description: "Return the response as structured fields.",
			InputSchema: schema.JSONSchema(),
		}},
		ToolChoice: &toolChoice{Type: "tool", Name: name},
	})

	var reply messagesResponse
	decodeErr := json.Unmarshal(body, &reply)
	if err != nil {
		return "", apiError(err, reply)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", decodeErr)
	}
	return toolInput(reply)
}

// toolInput prefers the forced tool call and falls back to any text.
func toolInput(reply messagesResponse) (string, error) {
	var text strings.Builder
	for _, block := range reply.Content {
		switch block.Type {
		case "tool_use":
			if len(block.Input) > 0 {
				return string(block.Input), nil
			}
		case "text":
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("anthropic: empty reply")
	}
	return text.String(), nil
}

func apiError(err error, reply messagesResponse) error {
	var status *rest.StatusError
	if !errors.As(err, &status) {
		return fmt.Errorf("anthropic: %w", err)
	}
	if status.Unauthorized() {
		return fmt.Errorf("anthropic: %w: invalid API key", domain.ErrServiceUnavailable)
	}
	if reply.Error != nil {
		return fmt.Errorf("anthropic: %s: %s", reply.Error.Type, reply.Error.Message)
	}
	return fmt.Errorf("anthropic: %w", err)
}

func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.api.Get(ctx, "/v1/models"); err != nil {
		return apiError(err, messagesResponse{})
	}
	return nil
}

func (s *LLMService) Close() error {
	return nil
}
