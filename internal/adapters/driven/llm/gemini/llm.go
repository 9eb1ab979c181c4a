// Package gemini generates structured answers with the Google Gemini API.
package gemini

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driven/llm/rest"
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 120 * time.Second

	apiVersion = "v1beta"
)

// Config holds the credential and endpoint. APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService calls generateContent with a JSON response schema.
type LLMService struct {
	api   *rest.Client
	model string
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type generateResponse struct {
	Candidates     []candidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewLLMService creates a Gemini client. No request is made.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required: %w", domain.ErrServiceUnavailable)
	}
	return &LLMService{
		api: rest.New(rest.Config{
			BaseURL: cmp.Or(cfg.BaseURL, DefaultBaseURL),
			Timeout: cmp.Or(cfg.Timeout, DefaultTimeout),
			Headers: map[string]string{"x-goog-api-key": cfg.APIKey},
		}),
		model: cmp.Or(cfg.Model, DefaultModel),
	}, nil
}

// GenerateStructured asks the model for a JSON object matching schema and
// joins the parts of the first candidate.
func (s *LLMService) GenerateStructured(ctx context.Context, prompt string, schema driven.ResponseSchema) (string, error) {
	body, err := s.api.Post(ctx, s.modelPath()+":generateContent", generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   openAPISchema(schema),
		},
	})

	var reply generateResponse
	decodeErr := json.Unmarshal(body, &reply)
	switch {
	case err != nil:
		return "", failure(err, reply.Error)
	case decodeErr != nil:
		return "", fmt.Errorf("gemini: decode response: %w", decodeErr)
	case reply.Error != nil:
		return "", failure(errors.New(reply.Error.Message), reply.Error)
	case reply.PromptFeedback != nil && reply.PromptFeedback.BlockReason != "":
		return "", fmt.Errorf("gemini: prompt blocked: %s", reply.PromptFeedback.BlockReason)
	case len(reply.Candidates) == 0:
		return "", errors.New("gemini: no candidates returned")
	}

	var text strings.Builder
	for _, p := range reply.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

func (s *LLMService) ModelName() string {
	return s.model
}

// Ping fetches the model's metadata, which checks the key without inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.api.Get(ctx, s.modelPath()); err != nil {
		return failure(err, nil)
	}
	return nil
}

func (s *LLMService) Close() error {
	return nil
}

func (s *LLMService) modelPath() string {
	return "/" + apiVersion + "/models/" + url.PathEscape(s.model)
}

// failure maps rejected credentials to domain.ErrServiceUnavailable. Gemini
// reports a bad key as 400 INVALID_ARGUMENT, so the message is checked too.
func failure(err error, detail *apiError) error {
	msg := err.Error()
	if detail != nil && detail.Message != "" {
		msg = detail.Message
	}
	var status *rest.StatusError
	rejected := errors.As(err, &status) && status.Unauthorized()
	if rejected || strings.Contains(msg, "API_KEY_INVALID") || strings.Contains(msg, "API key not valid") {
		return fmt.Errorf("gemini: %w: %s", domain.ErrServiceUnavailable, msg)
	}
	return fmt.Errorf("gemini: %w", err)
}

// openAPISchema renders schema in the OpenAPI subset Gemini accepts,
// which spells types in upper case.
func openAPISchema(schema driven.ResponseSchema) map[string]any {
	props := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		var prop map[string]any
		switch f.Type {
		case driven.FieldStringArray:
			prop = map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}}
		default:
			prop = map[string]any{"type": "STRING"}
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		props[f.Name] = prop
	}
	return map[string]any{
		"type":       "OBJECT",
		"properties": props,
		"required":   schema.FieldNames(),
	}
}
