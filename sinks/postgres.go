package sinks

import (
	"context"

	"github.com/pkg/errors"

	"github.com/alena0604/data-techniques/data"
	"github.com/alena0604/data-techniques/models"
)

type DocumentStore interface {
	UpsertDocument(ctx context.Context, doc data.Document) error
}

type PostgresSink struct {
	store DocumentStore
}

func NewPostgresSink(store DocumentStore) *PostgresSink {
	return &PostgresSink{store: store}
}

func (s *PostgresSink) Name() string {
	return "postgres"
}

func (s *PostgresSink) Write(ctx context.Context, doc models.CanonicalDocument) error {
	entity, err := data.NewDocument(doc)
	if err != nil {
		return errors.Wrap(err, "postgres sink: build entity")
	}
	return s.store.UpsertDocument(ctx, entity)
}

// Close is a no-op. The database handle is owned by main.
func (s *PostgresSink) Close() error {
	return nil
}
