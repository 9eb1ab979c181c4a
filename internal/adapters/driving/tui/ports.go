// Package tui is the interactive terminal front end: a dashboard, search with
// synthesized answers, the document library and a reader.
package tui

import (
	"errors"

	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
)

var (
	ErrMissingSearchService   = errors.New("tui: search service is required")
	ErrMissingDocumentService = errors.New("tui: document service is required")
)

// Ports are the services the screens call. A Search that also has a
// Cancel method lets the search screen abandon a query when the user leaves.
type Ports struct {
	Search   driving.SearchService
	Document driving.DocumentService
}

func NewPorts(search driving.SearchService, document driving.DocumentService) *Ports {
	return &Ports{Search: search, Document: document}
}

// Validate reports every missing service at once.
func (p *Ports) Validate() error {
	if p == nil {
		return errors.Join(ErrMissingSearchService, ErrMissingDocumentService)
	}
	var errs []error
	if p.Search == nil {
		errs = append(errs, ErrMissingSearchService)
	}
	if p.Document == nil {
		errs = append(errs, ErrMissingDocumentService)
	}
	return errors.Join(errs...)
}
