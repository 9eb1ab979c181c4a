// Package ollama generates structured answers with a local Ollama server.
package ollama

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/llm/rest"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig selects the server and model. Zero fields take the defaults above.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService calls /api/generate with a JSON schema in the format field.
type LLMService struct {
	api   *rest.Client
	model string
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  map[string]any `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewLLMService creates an Ollama client. No request is made.
func NewLLMService(cfg LLMConfig) *LLMService {
	return &LLMService{
		api: rest.New(rest.Config{
			BaseURL: cmp.Or(cfg.BaseURL, DefaultBaseURL),
			Timeout: cmp.Or(cfg.Timeout, DefaultLLMTimeout),
		}),
		model: cmp.Or(cfg.Model, DefaultLLMModel),
	}
}

// GenerateStructured asks the model for a JSON object matching schema.
// Sampling is deterministic.
func (s *LLMService) GenerateStructured(ctx context.Context, prompt string, schema driven.ResponseSchema) (string, error) {
	body, err := s.api.Post(ctx, "/api/generate", generateRequest{
		Model:   s.model,
		Prompt:  prompt,
		Format:  schema.JSONSchema(),
		Options: map[string]any{"temperature": 0},
	})

	var reply generateResponse
	decodeErr := json.Unmarshal(body, &reply)

	var status *rest.StatusError
	switch {
	case errors.As(err, &status) && reply.Error != "":
		return "", fmt.Errorf("ollama: status %d: %s", status.Status, reply.Error)
	case err != nil:
		return "", fmt.Errorf("ollama: %w", err)
	case decodeErr != nil:
		return "", fmt.Errorf("ollama: decode response: %w", decodeErr)
	case reply.Error != "":
		return "", fmt.Errorf("ollama: %s", reply.Error)
	}
	return reply.Response, nil
}

func (s *LLMService) ModelName() string {
	return s.model
}

// Ping lists the installed models, which needs no inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.api.Get(ctx, "/api/tags"); err != nil {
		return fmt.Errorf("ollama: ping: %w", err)
	}
	return nil
}

func (s *LLMService) Close() error {
	return nil
}
