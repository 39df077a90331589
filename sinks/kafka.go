package sinks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/alena0604/data-techniques/models"
)

type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink keys messages by article ID so updates to one item stay on one partition.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

func (s *KafkaSink) Name() string {
	return "kafka"
}

func (s *KafkaSink) Write(ctx context.Context, doc models.CanonicalDocument) error {
	value, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshal document")
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(doc.ArticleID),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return errors.Wrap(err, "write kafka message")
	}

	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
