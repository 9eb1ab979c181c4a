package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchOutcome, error)
	cancelled  int
}

func (m *MockSearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchOutcome, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return &domain.SearchOutcome{Query: query}, nil
}

// Cancel records cancellation requests from the search view.
func (m *MockSearchService) Cancel() {
	m.cancelled++
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc   func(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error)
	DeleteFunc func(ctx context.Context, documentID string) error
	StatsFunc  func(ctx context.Context) (*domain.Stats, error)
}

var (
	_ driving.SearchService   = (*MockSearchService)(nil)
	_ driving.DocumentService = (*MockDocumentService)(nil)
)

func (m *MockDocumentService) Add(_ context.Context, _ *domain.Document) error { return nil }

func (m *MockDocumentService) Ingest(_ context.Context, _ driving.IngestRequest) (*domain.Document, error) {
	return nil, nil
}

func (m *MockDocumentService) Analyze(_ context.Context, _ string) domain.AnalysisResult {
	return domain.AnalysisResult{}
}

func (m *MockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *MockDocumentService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []domain.Document{}, nil
}

func (m *MockDocumentService) Delete(ctx context.Context, documentID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, documentID)
	}
	return nil
}

func (m *MockDocumentService) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &domain.Stats{}, nil
}

func (m *MockDocumentService) Seed(_ context.Context, docs []domain.Document) (int, error) {
	return len(docs), nil
}

func TestNewPorts(t *testing.T) {
	search := &MockSearchService{}
	docs := &MockDocumentService{}

	ports := NewPorts(search, docs)

	require.NotNil(t, ports)
	assert.Equal(t, search, ports.Search)
	assert.Equal(t, docs, ports.Document)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{name: "valid", ports: NewPorts(&MockSearchService{}, &MockDocumentService{})},
		{name: "nil ports", ports: nil, wantErr: ErrMissingDocumentService},
		{name: "empty ports", ports: &Ports{}, wantErr: ErrMissingSearchService},
		{name: "missing search", ports: &Ports{Document: &MockDocumentService{}}, wantErr: ErrMissingSearchService},
		{name: "missing document", ports: &Ports{Search: &MockSearchService{}}, wantErr: ErrMissingDocumentService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPorts_ValidateReportsBoth(t *testing.T) {
	err := (&Ports{}).Validate()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSearchService)
	assert.ErrorIs(t, err, ErrMissingDocumentService)
	assert.Contains(t, err.Error(), "search service")
	assert.Contains(t, err.Error(), "document service")
}
