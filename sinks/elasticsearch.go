package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/pkg/errors"

	"github.com/alena0604/data-techniques/models"
)

type ElasticsearchSink struct {
	es    *elasticsearch.Client
	index string
}

func NewElasticsearchSink(url, index string) (*ElasticsearchSink, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, errors.Wrap(err, "create elasticsearch client")
	}

	return &ElasticsearchSink{es: es, index: index}, nil
}

func (s *ElasticsearchSink) Name() string {
	return "elasticsearch"
}

func (s *ElasticsearchSink) Write(ctx context.Context, doc models.CanonicalDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshal document")
	}

	res, err := s.es.Index(
		s.index,
		bytes.NewReader(body),
		s.es.Index.WithDocumentID(doc.SourceName+"-"+doc.ArticleID),
		s.es.Index.WithContext(ctx),
	)
	if err != nil {
		return errors.Wrap(err, "index document")
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch returned error: %s", res.String())
	}

	return nil
}

func (s *ElasticsearchSink) Close() error {
	return nil
}
