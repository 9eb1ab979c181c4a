// Package html extracts readable text from HTML pages.
package html

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

var _ driven.TextExtractor = (*Extractor)(nil)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority ranks above plaintext so sniffed HTML is not kept as markup.
func (e *Extractor) Priority() int {
	return 50
}

// Elements whose content is never text.
var hidden = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true,
	atom.Noscript: true, atom.Svg: true, atom.Template: true,
}

// Elements that start a new line.
var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Table: true, atom.Section: true,
	atom.Article: true, atom.Br: true, atom.Hr: true,
}

// Extract returns the visible text one block per line, and the <title>.
// Pages in a legacy encoding are converted to UTF-8 first.
func (e *Extractor) Extract(_ context.Context, _ string, content []byte) (*driven.ExtractResult, error) {
	page, err := toUTF8(content)
	if err != nil {
		return nil, fmt.Errorf("decode html: %v: %w", err, domain.ErrInvalidInput)
	}

	var text, title strings.Builder
	depth, inTitle := 0, false

	z := html.NewTokenizer(bytes.NewReader(page))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("read html: %v: %w", err, domain.ErrInvalidInput)
			}
			break
		}

		name, _ := z.TagName()
		tag := atom.Lookup(name)
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			switch {
			case tag == atom.Title:
				inTitle = tt == html.StartTagToken
			case hidden[tag] && tt == html.StartTagToken:
				depth++
			case blocks[tag]:
				text.WriteByte('\n')
			}
		case html.EndTagToken:
			switch {
			case tag == atom.Title:
				inTitle = false
			case hidden[tag] && depth > 0:
				depth--
			case blocks[tag]:
				text.WriteByte('\n')
			}
		case html.TextToken:
			switch {
			case inTitle:
				title.Write(z.Text())
			case depth == 0:
				text.Write(z.Text())
			}
		}
	}

	return &driven.ExtractResult{
		RawText:  tidy(text.String()),
		Title:    strings.Join(strings.Fields(title.String()), " "),
		MIMEType: "text/html",
	}, nil
}

func toUTF8(content []byte) ([]byte, error) {
	if utf8.Valid(content) {
		return content, nil
	}
	enc, _, _ := charset.DetermineEncoding(content, "text/html")
	return io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
}

// tidy collapses runs of spaces and drops blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
