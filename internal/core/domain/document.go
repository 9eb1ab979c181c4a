package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Category classifies a document. The set is fixed.
type Category string

// Available document categories.
const (
	CategorySRS            Category = "SRS"
	CategoryDataDictionary Category = "Data Dictionary"
	CategoryCRF            Category = "CRF"
	CategoryIntegration    Category = "Integration"
	CategoryTechnical      Category = "Technical"
	CategoryGeneral        Category = "General"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{
		CategorySRS,
		CategoryDataDictionary,
		CategoryCRF,
		CategoryIntegration,
		CategoryTechnical,
		CategoryGeneral,
	}
}

// IsValid returns true if the category is one of the fixed set.
func (c Category) IsValid() bool {
	return slices.Contains(AllCategories(), c)
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory resolves a category name case-insensitively.
// An empty name resolves to CategoryGeneral.
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CategoryGeneral, nil
	}
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, name)
}

// Departments returns the departments offered as suggestions.
// Department is free text; these are not enforced.
func Departments() []string {
	return []string{"Engineering", "Product", "Sales", "HR", "Legal"}
}

// Document is the unit of storage and retrieval.
// A stored document is never mutated; replacing content means delete + insert.
type Document struct {
	// ID is the unique identifier, immutable after creation.
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable title.
	Title string `json:"title" yaml:"title"`

	// Author is the free-text author name.
	Author string `json:"author" yaml:"author"`

	// Version is the free-text document version.
	Version string `json:"version" yaml:"version"`

	// Department owns the document.
	Department string `json:"department" yaml:"department"`

	// Category is one of the fixed categories.
	Category Category `json:"category" yaml:"category"`

	// Tags are lowercase short strings. Order is preserved for display.
	Tags []string `json:"tags" yaml:"tags"`

	// RawText is the extracted plain text used for scoring and grounding.
	// It may be empty if extraction failed.
	RawText string `json:"rawText" yaml:"rawText"`

	// Summary is the synthesized abstract; nil until analysis succeeds.
	Summary *string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// UploadDate is the creation timestamp.
	UploadDate time.Time `json:"uploadDate" yaml:"uploadDate"`
}

// Validate checks the invariants a document must satisfy before storage.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: document title is required", ErrInvalidInput)
	}
	if !d.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, d.Category)
	}
	return nil
}

// Clone returns a deep copy so callers never share tags or summary with the store.
func (d Document) Clone() Document {
	out := d
	if d.Tags != nil {
		out.Tags = slices.Clone(d.Tags)
	}
	if d.Summary != nil {
		s := *d.Summary
		out.Summary = &s
	}
	return out
}

// SummaryText returns the summary or an empty string when absent.
func (d *Document) SummaryText() string {
	if d.Summary == nil {
		return ""
	}
	return *d.Summary
}

// ListFilter narrows a document listing. Empty fields match everything.
type ListFilter struct {
	// Title matches a case-insensitive substring of the title.
	Title string

	// Category is a category name, parsed case-insensitively.
	Category string

	// Department matches the whole department name, ignoring case.
	Department string
}

// Matcher returns the predicate f describes. An unknown category is
// ErrInvalidInput.
func (f ListFilter) Matcher() (func(*Document) bool, error) {
	var category Category
	if strings.TrimSpace(f.Category) != "" {
		c, err := ParseCategory(f.Category)
		if err != nil {
			return nil, err
		}
		category = c
	}
	title := strings.ToLower(strings.TrimSpace(f.Title))
	department := strings.TrimSpace(f.Department)

	return func(doc *Document) bool {
		switch {
		case category != "" && doc.Category != category:
			return false
		case department != "" && !strings.EqualFold(doc.Department, department):
			return false
		case title != "" && !strings.Contains(strings.ToLower(doc.Title), title):
			return false
		}
		return true
	}, nil
}
