// Package extractors provides implementations of the TextExtractor interface
// for uploaded file formats, and the registry that picks one per file.
// Each extractor knows how to pull plain text out of specific MIME types.
//
// Extractors are registered with the Registry at startup via RegisterDefaults.
package extractors
