// Package docx extracts text from Word (.docx) files.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

var _ driven.TextExtractor = (*Extractor)(nil)

// MIMEType is the Office Open XML word processing content type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	bodyPart  = "word/document.xml"
	propsPart = "docProps/core.xml"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

func (e *Extractor) Priority() int {
	return 50
}

// Extract returns the body text, one paragraph per line with tabs and line
// breaks kept. The title is dc:title from the core properties, if any.
func (e *Extractor) Extract(_ context.Context, _ string, content []byte) (*driven.ExtractResult, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", domain.ErrInvalidInput)
	}

	result := &driven.ExtractResult{MIMEType: MIMEType}

	body, err := part(archive, bodyPart)
	if err != nil {
		return nil, err
	}
	if body != nil {
		if result.RawText, err = bodyText(bytes.NewReader(body)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", bodyPart, domain.ErrInvalidInput)
		}
	}

	if props, _ := part(archive, propsPart); props != nil {
		var core struct {
			Title string `xml:"title"`
		}
		if xml.Unmarshal(props, &core) == nil {
			result.Title = strings.TrimSpace(core.Title)
		}
	}
	return result, nil
}

// part reads one archive member. A missing member is not an error.
func part(archive *zip.Reader, name string) ([]byte, error) {
	data, err := fs.ReadFile(archive, name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", name, domain.ErrInvalidInput)
	}
	return data, nil
}

// bodyText walks WordprocessingML tokens. Only character data inside <w:t>
// is text; <w:tab>, <w:br> and paragraph ends become whitespace.
func bodyText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
