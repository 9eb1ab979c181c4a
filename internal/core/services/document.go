package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// recentUploads is how many documents Stats reports as recent.
const recentUploads = 5

// DocumentService manages the document collection.
type DocumentService struct {
	docStore   driven.DocumentStore
	analyzer   *Analyzer
	extractors driven.ExtractorRegistry
	now        func() time.Time
}

// NewDocumentService creates a new document service.
// analyzer and extractors are optional (can be nil). Without an analyzer,
// ingested documents get no summary; without extractors, Ingest requires raw text.
func NewDocumentService(
	docStore driven.DocumentStore,
	analyzer *Analyzer,
	extractors driven.ExtractorRegistry,
) *DocumentService {
	if analyzer == nil {
		analyzer = NewAnalyzer(nil, 0)
	}
	return &DocumentService{
		docStore:   docStore,
		analyzer:   analyzer,
		extractors: extractors,
		now:        time.Now,
	}
}

// Add validates and inserts a fully formed document.
func (s *DocumentService) Add(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if doc.UploadDate.IsZero() {
		doc.UploadDate = s.now()
	}
	return s.docStore.Insert(ctx, doc)
}

// Ingest extracts text, runs analysis and inserts the resulting document.
// Analysis always completes before the document is stored.
func (s *DocumentService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.Document, error) {
	logger.Section("Ingest")

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}

	rawText := req.RawText
	title := strings.TrimSpace(req.Title)
	if len(req.Content) > 0 {
		if s.extractors == nil {
			return nil, fmt.Errorf("%w: no text extractors configured", domain.ErrUnsupportedType)
		}
		extracted, err := s.extractors.Extract(ctx, req.FileName, req.Content)
		if err != nil {
			return nil, fmt.Errorf("extract %q: %w", req.FileName, err)
		}
		rawText = extracted.RawText
		if title == "" {
			title = extracted.Title
		}
		logger.Debug("Extracted %d characters from %q (%s)", len(rawText), req.FileName, extracted.MIMEType)
	}
	if title == "" {
		title = titleFromFileName(req.FileName)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	doc := &domain.Document{
		ID:         id,
		Title:      title,
		Author:     strings.TrimSpace(req.Author),
		Version:    strings.TrimSpace(req.Version),
		Department: strings.TrimSpace(req.Department),
		Category:   category,
		Tags:       NormaliseTags(req.Tags, 0),
		RawText:    rawText,
		UploadDate: s.now(),
	}
	if doc.Version == "" {
		doc.Version = "1.0"
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	analysis := s.analyzer.Analyze(ctx, rawText)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case analysis.HasSummary():
		summary := analysis.Summary
		doc.Summary = &summary
	case analysis.Degraded():
		logger.Warn("Analysis degraded for %q: %v", doc.Title, analysis.Reason)
	}
	if len(analysis.Tags) > 0 {
		doc.Tags = NormaliseTags(append(doc.Tags, analysis.Tags...), 0)
	}

	if err := s.docStore.Insert(ctx, doc); err != nil {
		return nil, err
	}
	logger.Info("Ingested %q as %s", doc.Title, doc.ID)

	out := doc.Clone()
	return &out, nil
}

// Analyze summarises and tags text without storing anything.
func (s *DocumentService) Analyze(ctx context.Context, rawText string) domain.AnalysisResult {
	return s.analyzer.Analyze(ctx, rawText)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.Get(ctx, documentID)
}

// List returns the documents matching filter in insertion order.
func (s *DocumentService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	match, err := filter.Matcher()
	if err != nil {
		return nil, err
	}
	docs := []domain.Document{}
	for doc := range s.docStore.List(ctx) {
		if match(&doc) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Delete removes a document. Deleting an absent ID succeeds.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	return s.docStore.Delete(ctx, documentID)
}

// Stats counts documents by category and department and lists the most recent uploads.
func (s *DocumentService) Stats(ctx context.Context) (*domain.Stats, error) {
	docs, err := s.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]int)
	byDepartment := make(map[string]int)
	for _, doc := range docs {
		byCategory[doc.Category.String()]++
		dept := doc.Department
		if dept == "" {
			dept = "Unassigned"
		}
		byDepartment[dept]++
	}

	recent := slices.Clone(docs)
	slices.Reverse(recent)
	slices.SortStableFunc(recent, func(a, b domain.Document) int {
		return b.UploadDate.Compare(a.UploadDate)
	})
	if len(recent) > recentUploads {
		recent = recent[:recentUploads]
	}

	return &domain.Stats{
		TotalDocuments: len(docs),
		ByCategory:     countEntries(byCategory),
		ByDepartment:   countEntries(byDepartment),
		Recent:         recent,
	}, nil
}

// Seed inserts docs, skipping any whose ID is already present.
// Returns the number inserted.
func (s *DocumentService) Seed(ctx context.Context, docs []domain.Document) (int, error) {
	inserted := 0
	for i := range docs {
		doc := docs[i].Clone()
		err := s.Add(ctx, &doc)
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, domain.ErrDuplicateID):
			logger.Debug("Seed document %s already present, skipping", doc.ID)
		default:
			return inserted, fmt.Errorf("seed document %q: %w", doc.ID, err)
		}
	}
	logger.Info("Seeded %d of %d documents", inserted, len(docs))
	return inserted, nil
}

// countEntries sorts counts descending, then by name.
func countEntries(counts map[string]int) []domain.CountEntry {
	out := make([]domain.CountEntry, 0, len(counts))
	for name, value := range counts {
		out = append(out, domain.CountEntry{Name: name, Value: value})
	}
	slices.SortFunc(out, func(a, b domain.CountEntry) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

func titleFromFileName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
