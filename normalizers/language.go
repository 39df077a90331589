package normalizers

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/alena0604/data-techniques/models"
)

// Languages commonly seen on Hacker News. Loading every lingua model costs about a gigabyte.
var detectableLanguages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Italian,
	lingua.Dutch,
	lingua.Russian,
	lingua.Chinese,
	lingua.Japanese,
}

type LanguageDetector struct {
	detector lingua.LanguageDetector
}

func NewLanguageDetector() *LanguageDetector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(detectableLanguages...).
		WithMinimumRelativeDistance(0.1).
		Build()
	return &LanguageDetector{detector: detector}
}

// Enrich sets doc.Language when the title or content is conclusive. Sentinel fields are ignored.
func (d *LanguageDetector) Enrich(doc *models.CanonicalDocument) {
	parts := make([]string, 0, 2)
	if doc.Title != models.Sentinel {
		parts = append(parts, doc.Title)
	}
	if doc.Content != models.Sentinel {
		parts = append(parts, doc.Content)
	}
	if len(parts) == 0 {
		return
	}

	lang, ok := d.detector.DetectLanguageOf(strings.Join(parts, " "))
	if !ok {
		return
	}
	doc.Language = strings.ToLower(lang.IsoCode639_1().String())
}
