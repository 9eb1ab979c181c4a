package httpapi

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// searchRequest is the body of POST /api/search.
type searchRequest struct {
	Query      string `json:"query" validate:"max=1000"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=100"`
	SkipAnswer bool   `json:"skipAnswer"`
}

// searchResult is one ranked candidate.
type searchResult struct {
	Document domain.Document `json:"document"`
	Score    int             `json:"score"`
}

// searchResponse is the body returned by POST /api/search.
type searchResponse struct {
	Query          string            `json:"query"`
	Performed      bool              `json:"performed"`
	Results        []searchResult    `json:"results"`
	Answer         string            `json:"answer"`
	RelevantDocIDs []string          `json:"relevantDocIds"`
	Status         domain.CallStatus `json:"status"`
	Defaulted      []string          `json:"defaulted,omitempty"`
}

func newSearchResponse(outcome *domain.SearchOutcome) searchResponse {
	resp := searchResponse{
		Query:          outcome.Query,
		Performed:      outcome.Performed,
		Results:        make([]searchResult, 0, len(outcome.Results)),
		Answer:         outcome.Synthesis.Answer,
		RelevantDocIDs: outcome.Synthesis.RelevantDocIDs,
		Status:         outcome.Synthesis.Status,
		Defaulted:      outcome.Synthesis.Defaulted,
	}
	if resp.RelevantDocIDs == nil {
		resp.RelevantDocIDs = []string{}
	}
	for _, r := range outcome.Results {
		resp.Results = append(resp.Results, searchResult{Document: r.Document, Score: r.Score})
	}
	return resp
}

// createDocumentRequest is the body of POST /api/documents.
type createDocumentRequest struct {
	ID         string   `json:"id" validate:"omitempty,max=128"`
	Title      string   `json:"title" validate:"required,max=300"`
	Author     string   `json:"author" validate:"max=200"`
	Version    string   `json:"version" validate:"max=50"`
	Department string   `json:"department" validate:"max=100"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags" validate:"max=20,dive,max=50"`
	RawText    string   `json:"rawText"`
}

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate runs struct validation and converts failures to a ValidationError.
func validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return NewValidationError(fields)
}
