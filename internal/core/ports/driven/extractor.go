package driven

import "context"

// TextExtractor turns an uploaded file into plain text.
// Each extractor handles specific MIME types (e.g., DOCX, Markdown).
type TextExtractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-100.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract reads content and returns its text.
	Extract(ctx context.Context, name string, content []byte) (*ExtractResult, error)
}

// ExtractResult contains the output of extraction.
type ExtractResult struct {
	// RawText is the document's plain text.
	RawText string

	// Title is a title found in the file, or empty.
	Title string

	// MIMEType is the detected content type.
	MIMEType string
}

// ExtractorRegistry selects the appropriate extractor for a file.
type ExtractorRegistry interface {
	// Extract detects the file type and runs the best matching extractor.
	// Returns domain.ErrUnsupportedType when no extractor matches.
	Extract(ctx context.Context, name string, content []byte) (*ExtractResult, error)

	// Register adds an extractor to the registry.
	Register(extractor TextExtractor)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string
}
