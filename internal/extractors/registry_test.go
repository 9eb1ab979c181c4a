package extractors

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driven"
)

type fakeExtractor struct {
	types    []string
	priority int
	text     string
}

func (f *fakeExtractor) SupportedMIMETypes() []string { return f.types }
func (f *fakeExtractor) Priority() int { return f.priority }
func (f *fakeExtractor) Extract(context.Context, string, []byte) (*driven.ExtractResult, error) {
	return &driven.ExtractResult{RawText: f.text}, nil
}

func TestRegistry_PrefersHigherPriority(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeExtractor{types: []string{"text/plain"}, priority: 5, text: "low"})
	r.Register(&fakeExtractor{types: []string{"text/plain"}, priority: 60, text: "high"})

	result, err := r.Extract(context.Background(), "a.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "high", result.RawText)
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeExtractor{types: []string{"text/markdown"}, priority: 50})

	_, err := r.Extract(context.Background(), "image.png", []byte("\x89PNG\r\n\x1a\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestDetectTypes(t *testing.T) {
	t.Run("extension first", func(t *testing.T) {
		types := DetectTypes("README.md", []byte("# Title\nbody"))
		require.NotEmpty(t, types)
		assert.Equal(t, "text/markdown", types[0])
		assert.Contains(t, types, "text/plain")
	})

	t.Run("sniffed without extension", func(t *testing.T) {
		types := DetectTypes("notes", []byte("plain words"))
		assert.Equal(t, "text/plain", types[0])
	})

	t.Run("parameters stripped", func(t *testing.T) {
		for _, mt := range DetectTypes("x", []byte("hello")) {
			assert.NotContains(t, mt, ";")
		}
	})
}

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	types := r.SupportedMIMETypes()
	assert.Contains(t, types, "text/plain")
	assert.Contains(t, types, "text/markdown")
	assert.Contains(t, types, "text/html")
	assert.Contains(t, types, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")

	t.Run("markdown", func(t *testing.T) {
		result, err := r.Extract(context.Background(), "guide.md", []byte("# Guide\n\n**Bold** text"))
		require.NoError(t, err)
		assert.Equal(t, "Guide", result.Title)
		assert.Equal(t, "Guide\n\nBold text", result.RawText)
	})

	t.Run("plain text", func(t *testing.T) {
		result, err := r.Extract(context.Background(), "notes.txt", []byte("payment_id column"))
		require.NoError(t, err)
		assert.Equal(t, "payment_id column", result.RawText)
	})

	t.Run("docx by content", func(t *testing.T) {
		buf := new(bytes.Buffer)
		w := zip.NewWriter(buf)
		f, err := w.Create("word/document.xml")
		require.NoError(t, err)
		_, err = f.Write([]byte(`<document><body><p><r><t>Hello docx</t></r></p></body></document>`))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		result, err := r.Extract(context.Background(), "upload.docx", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "Hello docx", result.RawText)
	})
}
