package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_JSONFieldNames(t *testing.T) {
	stats := Stats{
		TotalDocuments: 2,
		ByCategory:     []CountEntry{{Name: "SRS", Value: 2}},
	}

	data, err := json.Marshal(stats)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"totalDocs":2`)
	assert.Contains(t, string(data), `"byCategory":[{"name":"SRS","value":2}]`)
	assert.Contains(t, string(data), `"recentUploads":null`)
}
