package normalizers

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alena0604/data-techniques/models"
)

// DocumentNormalizer maps raw Hacker News items to canonical documents.
type DocumentNormalizer struct {
	now   func() time.Time
	newID func() string
}

// NewDocumentNormalizer uses now for items without a timestamp. A nil now means time.Now.
func NewDocumentNormalizer(now func() time.Time) *DocumentNormalizer {
	if now == nil {
		now = time.Now
	}
	return &DocumentNormalizer{
		now:   now,
		newID: uuid.NewString,
	}
}

// Normalize never fails. Missing or malformed optional fields get their defaults.
func (n *DocumentNormalizer) Normalize(raw models.RawItem) models.CanonicalDocument {
	return n.NormalizeItem(models.ParseItem(raw))
}

func (n *DocumentNormalizer) NormalizeItem(item models.HackerNewsItem) models.CanonicalDocument {
	doc := models.CanonicalDocument{
		Title:      orSentinel(item.Title),
		URL:        orSentinel(item.URL),
		Content:    orSentinel(item.Text),
		SourceName: models.SourceHackerNews,
	}

	// An empty author is absent. Anything else passes verbatim.
	if item.By != nil && *item.By != "" {
		doc.Author = item.By
	}

	if item.ID != nil {
		doc.ArticleID = strconv.FormatInt(*item.ID, 10)
	} else {
		doc.ArticleID = n.newID()
	}

	if item.Time != nil && *item.Time > 0 {
		doc.PublishedAt = FormatPublishedAt(time.Unix(*item.Time, 0))
	} else {
		doc.PublishedAt = FormatPublishedAt(n.now())
	}

	return doc
}

func FormatPublishedAt(t time.Time) string {
	return t.UTC().Format(models.PublishedAtLayout)
}

func orSentinel(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.Sentinel
	}
	return s
}
