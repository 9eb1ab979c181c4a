// Package seed loads the corpus inserted into the document store at start.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.SeedLoader = (*Loader)(nil)

//go:embed demo.yaml
var demoCorpus []byte

// corpusFile is the on-disk seed format.
type corpusFile struct {
	Documents []record `yaml:"documents"`
}

type record struct {
	ID         string    `yaml:"id"`
	Title      string    `yaml:"title"`
	Author     string    `yaml:"author"`
	Version    string    `yaml:"version"`
	Department string    `yaml:"department"`
	Category   string    `yaml:"category"`
	Tags       []string  `yaml:"tags"`
	Summary    string    `yaml:"summary"`
	RawText    string    `yaml:"raw_text"`
	UploadDate time.Time `yaml:"upload_date"`
}

// Loader reads a YAML corpus from a file, or the built-in demo corpus when
// no path is set.
type Loader struct {
	path string
}

// NewLoader creates a loader. An empty path selects the demo corpus.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses and validates the corpus.
func (l *Loader) Load(_ context.Context) ([]domain.Document, error) {
	data := demoCorpus
	source := "demo corpus"
	if l.path != "" {
		var err error
		data, err = os.ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		source = l.path
	}
	return Parse(data, source)
}

// Parse decodes a YAML corpus. source names the input in errors.
func Parse(data []byte, source string) ([]domain.Document, error) {
	var file corpusFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}

	docs := make([]domain.Document, 0, len(file.Documents))
	for i, rec := range file.Documents {
		doc, err := rec.toDocument()
		if err != nil {
			return nil, fmt.Errorf("%s: document %d: %w", source, i+1, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r record) toDocument() (domain.Document, error) {
	category, err := domain.ParseCategory(r.Category)
	if err != nil {
		return domain.Document{}, err
	}

	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := domain.Document{
		ID:         r.ID,
		Title:      r.Title,
		Author:     r.Author,
		Version:    r.Version,
		Department: r.Department,
		Category:   category,
		Tags:       tags,
		RawText:    r.RawText,
		UploadDate: r.UploadDate,
	}
	if r.Summary != "" {
		summary := r.Summary
		doc.Summary = &summary
	}
	if err := doc.Validate(); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}
