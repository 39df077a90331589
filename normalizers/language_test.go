package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alena0604/data-techniques/models"
)

func TestLanguageDetector_Enrich(t *testing.T) {
	d := NewLanguageDetector()

	doc := models.CanonicalDocument{
		Title:   "Show HN: A tiny database written over a long weekend",
		Content: "I have been working on this project for a while and would love to hear what you think about the design.",
	}
	d.Enrich(&doc)

	assert.Equal(t, "en", doc.Language)
}

func TestLanguageDetector_SkipsSentinels(t *testing.T) {
	d := NewLanguageDetector()

	doc := models.CanonicalDocument{Title: models.Sentinel, Content: models.Sentinel}
	d.Enrich(&doc)

	assert.Empty(t, doc.Language)
}
