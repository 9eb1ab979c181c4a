package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// AnalysisSchema is the response contract for ingestion analysis.
var AnalysisSchema = driven.ResponseSchema{
	Name: "analysis",
	Fields: []driven.SchemaField{
		{Name: "summary", Type: driven.FieldString, Description: "Concise two-sentence summary"},
		{Name: "tags", Type: driven.FieldStringArray, Description: "Up to five short lowercase tags"},
	},
}

// Analyzer summarises and tags document text at ingestion time.
type Analyzer struct {
	caller structuredCaller
}

// NewAnalyzer creates an analyzer. llm may be nil, in which case
// every analysis degrades to a fixed summary.
func NewAnalyzer(llm driven.LLMService, timeout time.Duration) *Analyzer {
	return &Analyzer{
		caller: structuredCaller{llm: llm, timeout: timeout, component: "analysis"},
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (a *Analyzer) SetPromptStore(store driven.PromptStore) {
	a.caller.prompts = store
}

// Analyze requests a summary and tags for rawText.
// It never fails: a failed call yields a degraded result with no tags, and
// fields missing from an otherwise readable response take their defaults.
func (a *Analyzer) Analyze(ctx context.Context, rawText string) domain.AnalysisResult {
	text := truncateRunes(rawText, domain.AnalysisTextLimit)
	prompt := fmt.Sprintf(a.caller.template(driven.PromptAnalysis), text)

	obj, err := a.caller.call(ctx, prompt, AnalysisSchema)
	if err != nil {
		summary := domain.SummaryFailed
		if errors.Is(err, domain.ErrServiceUnavailable) {
			summary = domain.SummaryUnavailable
		}
		return domain.AnalysisResult{
			Summary: summary,
			Tags:    []string{},
			Status:  domain.CallDegraded,
			Reason:  err,
		}
	}

	result := domain.AnalysisResult{Status: domain.CallSucceeded}

	summary, ok := stringField(obj, "summary")
	if !ok {
		summary = domain.SummaryMissing
		result.Defaulted = append(result.Defaulted, "summary")
	}
	result.Summary = summary

	tags, ok := stringArrayField(obj, "tags")
	if !ok {
		result.Defaulted = append(result.Defaulted, "tags")
	}
	result.Tags = NormaliseTags(tags, domain.MaxAnalysisTags)

	if len(result.Defaulted) > 0 {
		logger.Debug("Analysis response defaulted %v", result.Defaulted)
	}
	return result
}

// NormaliseTags trims and lower-cases tags, drops empties and duplicates,
// and keeps at most limit entries. A limit of zero or less keeps all.
func NormaliseTags(tags []string, limit int) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
