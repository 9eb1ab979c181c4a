package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	s := New()

	require.NotNil(t, s)
	assert.True(t, s.Heading.GetBold())
	assert.Equal(t, Accent, s.Heading.GetForeground())
	assert.Equal(t, Danger, s.Alert.GetForeground())
}

func TestCategory_EveryCategoryHasAColour(t *testing.T) {
	for _, c := range domain.AllCategories() {
		_, ok := categoryColours[c]
		assert.True(t, ok, "missing colour for %s", c)
	}
}

func TestCategory_RendersName(t *testing.T) {
	s := New()

	assert.Contains(t, s.Category(domain.CategoryDataDictionary), "Data Dictionary")
	assert.Contains(t, s.Category(domain.Category("Unknown")), "Unknown")
}

func TestForStatus(t *testing.T) {
	s := New()

	tests := []struct {
		status domain.CallStatus
		want   any
	}{
		{domain.CallSucceeded, Accent},
		{domain.CallDegraded, Caution},
		{domain.CallSkipped, Caution},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, s.ForStatus(tt.status).GetBorderLeftForeground())
		})
	}
}
