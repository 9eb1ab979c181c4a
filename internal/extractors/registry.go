package extractors

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// extensionTypes covers formats that content sniffing reports as text/plain.
var extensionTypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".csv":      "text/csv",
	".tsv":      "text/tab-separated-values",
	".sql":      "text/x-sql",
	".json":     "application/json",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".xml":      "application/xml",
	".html":     "text/html",
	".htm":      "text/html",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Registry selects an extractor by file extension and sniffed content type.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string][]driven.TextExtractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string][]driven.TextExtractor),
	}
}

// Register adds an extractor for each of its MIME types.
// Extractors for the same type are kept in descending priority order.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mt := range extractor.SupportedMIMETypes() {
		list := append(r.extractors[mt], extractor)
		slices.SortStableFunc(list, func(a, b driven.TextExtractor) int {
			return b.Priority() - a.Priority()
		})
		r.extractors[mt] = list
	}
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.extractors))
	for mt := range r.extractors {
		types = append(types, mt)
	}
	slices.Sort(types)
	return types
}

// Extract detects the type of content and runs the best extractor.
// Returns domain.ErrUnsupportedType when nothing matches.
func (r *Registry) Extract(ctx context.Context, name string, content []byte) (*driven.ExtractResult, error) {
	candidates := DetectTypes(name, content)

	r.mu.RLock()
	var extractor driven.TextExtractor
	for _, mt := range candidates {
		if list := r.extractors[mt]; len(list) > 0 {
			extractor = list[0]
			break
		}
	}
	r.mu.RUnlock()

	if extractor == nil {
		return nil, fmt.Errorf("%s (%s): %w", name, strings.Join(candidates, ", "), domain.ErrUnsupportedType)
	}

	result, err := extractor.Extract(ctx, name, content)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}
	return result, nil
}

// DetectTypes returns candidate MIME types for a file, most specific first:
// the type implied by the extension, then the sniffed type and its parents.
func DetectTypes(name string, content []byte) []string {
	var types []string
	add := func(mt string) {
		if base, _, err := mime.ParseMediaType(mt); err == nil {
			mt = base
		}
		if mt != "" && !slices.Contains(types, mt) {
			types = append(types, mt)
		}
	}

	if mt, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		add(mt)
	}
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		add(m.String())
	}
	return types
}
