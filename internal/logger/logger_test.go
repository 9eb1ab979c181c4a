package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetFormat(FormatText)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSilentUnlessVerbose(t *testing.T) {
	buf := capture(t)
	require.False(t, IsVerbose())

	Debug("d")
	Info("i")
	Warn("w")
	Section("s")
	Event("e", "k", "v")

	assert.Zero(t, buf.Len())
}

func TestTextOutput(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)
	assert.True(t, IsVerbose())

	Debug("ranked %d documents", 4)
	Warn("model call failed: %v", "timeout")
	Event("model call", "component", "synthesis", "status", "degraded")

	out := buf.String()
	assert.Contains(t, out, "DEBU")
	assert.Contains(t, out, "ranked 4 documents")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "model call failed: timeout")
	assert.Contains(t, out, "component=synthesis")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestSection(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Section("Search")

	assert.Equal(t, "\n=== Search ===\n", buf.String())
}

func TestJSONOutput(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)
	SetFormat(FormatJSON)

	Section("Ingest")
	Info("stored %s", "doc-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	recs := make([]map[string]any, len(lines))
	for i, line := range lines {
		require.NoError(t, json.Unmarshal([]byte(line), &recs[i]), line)
	}
	assert.Equal(t, "Ingest", recs[0]["name"])
	assert.Equal(t, "stored doc-1", recs[1]["msg"])
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: " JSON ", want: FormatJSON},
		{in: "xml", err: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestConcurrentUse(t *testing.T) {
	capture(t)
	SetOutput(io.Discard)
	SetVerbose(true)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(i%2 == 0)
			Debug("worker %d", i)
		}()
	}
	wg.Wait()
}
