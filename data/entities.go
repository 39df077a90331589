package data

import (
	"fmt"
	"time"

	"github.com/alena0604/data-techniques/models"
)

type Document struct {
	ArticleID   string    `db:"article_id"`
	SourceName  string    `db:"source_name"`
	Title       string    `db:"title"`
	URL         string    `db:"url"`
	Content     string    `db:"content"`
	Author      *string   `db:"author"`
	Language    string    `db:"language"`
	PublishedAt time.Time `db:"published_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func NewDocument(doc models.CanonicalDocument) (Document, error) {
	publishedAt, err := time.Parse(models.PublishedAtLayout, doc.PublishedAt)
	if err != nil {
		return Document{}, fmt.Errorf("parse published_at %q: %w", doc.PublishedAt, err)
	}

	return Document{
		ArticleID:   doc.ArticleID,
		SourceName:  doc.SourceName,
		Title:       doc.Title,
		URL:         doc.URL,
		Content:     doc.Content,
		Author:      doc.Author,
		Language:    doc.Language,
		PublishedAt: publishedAt,
	}, nil
}

func (d Document) Canonical() models.CanonicalDocument {
	return models.CanonicalDocument{
		ArticleID:   d.ArticleID,
		Title:       d.Title,
		URL:         d.URL,
		PublishedAt: d.PublishedAt.UTC().Format(models.PublishedAtLayout),
		SourceName:  d.SourceName,
		Content:     d.Content,
		Author:      d.Author,
		Language:    d.Language,
	}
}
