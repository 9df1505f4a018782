package blog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWire(t *testing.T) {
	publishedAt := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	coverURL := "http://localhost:8080/api/uploads/abc"

	wire := ToWire(&Post{
		ID:          42,
		Title:       "My First Post",
		Slug:        "my-first-post",
		ContentMd:   "hi",
		CoverURL:    &coverURL,
		Tags:        []string{"go", "blog"},
		PublishedAt: publishedAt,
	})

	assert.Equal(t, "42", wire.ID)
	assert.Equal(t, "my-first-post", wire.Slug)
	require.NotNil(t, wire.CoverURL)
	assert.Equal(t, coverURL, *wire.CoverURL)
	assert.Equal(t, publishedAt, wire.PublishedAt)
}

func TestToWire_optionalsOmitted(t *testing.T) {
	wire := ToWire(&Post{
		ID:        1,
		Title:     "t",
		Slug:      "t",
		ContentMd: "c",
	})

	wireJson, err := json.Marshal(wire)
	require.NoError(t, err)

	var asMap map[string]any
	require.NoError(t, json.Unmarshal(wireJson, &asMap))

	assert.Equal(t, "1", asMap["id"])
	assert.NotContains(t, asMap, "cover_url")
	// tags serialize as [], never null
	assert.Equal(t, []any{}, asMap["tags"])
	assert.NotContains(t, asMap, "_id")
}
