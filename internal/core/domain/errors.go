package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID indicates a document with the same ID is already stored.
	ErrDuplicateID = errors.New("duplicate document id")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor handles the given content type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Language model errors. These never escape the synthesis and analysis
	// boundary; they are carried as the Reason of a degraded result.

	// ErrServiceUnavailable indicates the language model credential is missing
	// or the provider is misconfigured.
	ErrServiceUnavailable = errors.New("language model service unavailable")

	// ErrServiceError indicates a network, timeout or remote failure during a
	// language model call.
	ErrServiceError = errors.New("language model service error")

	// ErrMalformedResponse indicates the model response did not match the
	// requested schema.
	ErrMalformedResponse = errors.New("malformed language model response")

	// ErrSuperseded indicates a query was cancelled because a newer query
	// started in the same session. Its result is discarded.
	ErrSuperseded = errors.New("query superseded by a newer query")
)
