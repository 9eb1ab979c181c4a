package mcp

import (
	"context"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	outcome *domain.SearchOutcome
	err     error

	gotQuery string
	gotOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) (*domain.SearchOutcome, error) {
	m.gotQuery = query
	m.gotOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.outcome == nil {
		return &domain.SearchOutcome{Query: query}, nil
	}
	return m.outcome, nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	err       error
}

func (m *mockDocumentService) Add(_ context.Context, _ *domain.Document) error {
	return m.err
}

func (m *mockDocumentService) Ingest(_ context.Context, _ driving.IngestRequest) (*domain.Document, error) {
	return nil, m.err
}

func (m *mockDocumentService) Analyze(_ context.Context, _ string) domain.AnalysisResult {
	return domain.AnalysisResult{}
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.documents {
		if m.documents[i].ID == id {
			doc := m.documents[i]
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(_ context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	match, err := filter.Matcher()
	if err != nil {
		return nil, err
	}
	out := []domain.Document{}
	for i := range m.documents {
		if match(&m.documents[i]) {
			out = append(out, m.documents[i])
		}
	}
	return out, nil
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Stats(_ context.Context) (*domain.Stats, error) {
	return &domain.Stats{TotalDocuments: len(m.documents)}, m.err
}

func (m *mockDocumentService) Seed(_ context.Context, docs []domain.Document) (int, error) {
	return len(docs), m.err
}

func testDocuments() []domain.Document {
	summary := "OAuth2 gateway design."
	return []domain.Document{
		{
			ID:         "1",
			Title:      "Gateway SRS",
			Department: "Engineering",
			Category:   domain.CategorySRS,
			Tags:       []string{"api", "security"},
			RawText:    "The gateway uses OAuth2 tokens.",
			Summary:    &summary,
		},
		{
			ID:         "2",
			Title:      "Patient Data Dictionary",
			Department: "Product",
			Category:   domain.CategoryDataDictionary,
			RawText:    "patient_id is a UUID.",
		},
	}
}
