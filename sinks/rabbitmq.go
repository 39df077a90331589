package sinks

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"

	"github.com/alena0604/data-techniques/models"
)

// publisher is the subset of *amqp.Channel the sink uses.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitMQSink struct {
	conn    io.Closer
	channel publisher
	queue   string
}

func NewRabbitMQSink(url, queue string) (*RabbitMQSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "open rabbitmq channel")
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.Wrapf(err, "declare queue %s", queue)
	}

	return &RabbitMQSink{
		conn:    conn,
		channel: ch,
		queue:   queue,
	}, nil
}

func (s *RabbitMQSink) Name() string {
	return "rabbitmq"
}

func (s *RabbitMQSink) Write(_ context.Context, doc models.CanonicalDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshal document")
	}

	err = s.channel.Publish("", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    doc.ArticleID,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return errors.Wrap(err, "publish document")
	}

	return nil
}

// Close closes the channel and then the connection, returning the first error.
func (s *RabbitMQSink) Close() error {
	var firstErr error
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			firstErr = errors.Wrap(err, "close rabbitmq channel")
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "close rabbitmq connection")
		}
	}
	return firstErr
}
