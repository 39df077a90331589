package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/alena0604/data-techniques/data"
)

type DocumentRepo struct {
	db *sqlx.DB
}

func NewDocumentRepo(db *sqlx.DB) *DocumentRepo {
	return &DocumentRepo{db}
}

// UpsertDocument makes redelivery of the same item idempotent.
func (r *DocumentRepo) UpsertDocument(ctx context.Context, doc data.Document) error {
	query := `
		INSERT INTO documents (source_name, article_id, title, url, content, author, language, published_at)
		VALUES (:source_name, :article_id, :title, :url, :content, :author, :language, :published_at)
		ON CONFLICT (source_name, article_id) DO UPDATE
		SET title = EXCLUDED.title,
			url = EXCLUDED.url,
			content = EXCLUDED.content,
			author = EXCLUDED.author,
			language = EXCLUDED.language,
			published_at = EXCLUDED.published_at,
			updated_at = now()`

	_, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	return nil
}

func (r *DocumentRepo) GetDocuments(limit, offset int) ([]data.Document, int, error) {
	var total int
	err := r.db.Get(&total, "SELECT COUNT(*) FROM documents")
	if err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	var docs []data.Document
	query := `
		SELECT source_name, article_id, title, url, content, author, language, published_at, created_at, updated_at
		FROM documents
		ORDER BY published_at DESC, article_id DESC
		LIMIT $1 OFFSET $2`

	err = r.db.Select(&docs, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get documents: %w", err)
	}

	return docs, total, nil
}

func (r *DocumentRepo) GetDocumentByID(sourceName, articleID string) (*data.Document, error) {
	var doc data.Document
	query := `
		SELECT source_name, article_id, title, url, content, author, language, published_at, created_at, updated_at
		FROM documents
		WHERE source_name = $1 AND article_id = $2`

	err := r.db.Get(&doc, query, sourceName, articleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document by id: %w", err)
	}

	return &doc, nil
}
