// Package messages defines the Bubbletea messages exchanged between DocuHub views.
package messages

import (
	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// Screen identifies the active view.
type Screen int

// Screens, in navigation order from the dashboard.
const (
	ScreenHome Screen = iota
	ScreenAsk
	ScreenLibrary
	ScreenHelp
	ScreenContent
	ScreenDetails
)

var screenNames = [...]string{"home", "ask", "library", "help", "content", "details"}

// String returns the screen name.
func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return "unknown"
	}
	return screenNames[s]
}

// Navigate switches to another screen.
type Navigate struct {
	To Screen
}

// StatsLoaded carries the dashboard statistics.
type StatsLoaded struct {
	Stats *domain.Stats
	Err   error
}

// SearchCompleted carries the outcome of a query. A superseded query
// never produces one.
type SearchCompleted struct {
	Outcome *domain.SearchOutcome
	Err     error
}

// LibraryLoaded carries the document library in insertion order.
type LibraryLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentDeleted reports the outcome of a delete.
type DocumentDeleted struct {
	DocumentID string
	Err        error
}

// OpenDocument shows a document's text.
type OpenDocument struct {
	Document domain.Document
}

// ShowDetails shows a document's metadata.
type ShowDetails struct {
	Document domain.Document
}

// Failed reports an error to the active screen.
type Failed struct {
	Err error
}
