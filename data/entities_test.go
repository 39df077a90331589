package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alena0604/data-techniques/models"
)

func TestNewDocument_RoundTrip(t *testing.T) {
	author := "alice"
	doc := models.CanonicalDocument{
		ArticleID:   "42",
		Title:       "Hi",
		URL:         "http://x",
		PublishedAt: "2023-11-14 22:13:20",
		SourceName:  models.SourceHackerNews,
		Content:     models.Sentinel,
		Author:      &author,
	}

	entity, err := NewDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), entity.PublishedAt)

	assert.Equal(t, doc, entity.Canonical())
}

func TestNewDocument_BadTimestamp(t *testing.T) {
	_, err := NewDocument(models.CanonicalDocument{ArticleID: "1", PublishedAt: "soon"})

	assert.Error(t, err)
}
