// Package domain has the types every layer shares: documents and their
// categories, ranked retrieval results, synthesized answers, ingestion
// analyses, library statistics and application settings, plus the sentinel
// errors adapters translate into HTTP statuses and tool errors.
//
// It imports only the standard library.
package domain
