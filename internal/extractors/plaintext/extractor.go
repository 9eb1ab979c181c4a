// Package plaintext extracts text from plain text files.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/tab-separated-values",
		"text/x-sql",
		"text/yaml",
		"text/toml",
		"application/json",
		"application/xml",
		"text/xml",
	}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract returns the content as text. Invalid UTF-8 is rejected since
// binary content would make retrieval scores meaningless.
func (e *Extractor) Extract(_ context.Context, _ string, content []byte) (*driven.ExtractResult, error) {
	if !utf8.Valid(content) {
		return nil, domain.ErrInvalidInput
	}
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	return &driven.ExtractResult{
		RawText:  strings.TrimPrefix(text, "\ufeff"),
		MIMEType: "text/plain",
	}, nil
}
