package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alena0604/data-techniques/models"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	closeErr  error
	closed    bool
}

func (c *fakeChannel) Publish(_, key string, _, _ bool, msg amqp.Publishing) error {
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return c.closeErr
}

type fakeConn struct {
	closeErr error
	closed   bool
}

func (c *fakeConn) Close() error {
	c.closed = true
	return c.closeErr
}

func TestRabbitMQSink_PublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	sink := &RabbitMQSink{conn: &fakeConn{}, channel: ch, queue: "documents"}

	require.NoError(t, sink.Write(context.Background(), testDocument("8863")))

	require.Len(t, ch.published, 1)
	assert.Equal(t, []string{"documents"}, ch.keys)
	msg := ch.published[0]
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, "8863", msg.MessageId)

	var doc models.CanonicalDocument
	require.NoError(t, json.Unmarshal(msg.Body, &doc))
	assert.Equal(t, "8863", doc.ArticleID)
}

func TestRabbitMQSink_CloseReturnsChannelError(t *testing.T) {
	ch := &fakeChannel{closeErr: errors.New("channel already closed")}
	conn := &fakeConn{closeErr: errors.New("connection reset")}
	sink := &RabbitMQSink{conn: conn, channel: ch, queue: "documents"}

	err := sink.Close()

	assert.ErrorContains(t, err, "channel already closed")
	assert.True(t, ch.closed)
	assert.True(t, conn.closed, "connection is closed even when the channel fails")
}

func TestRabbitMQSink_CloseReturnsConnectionError(t *testing.T) {
	conn := &fakeConn{closeErr: errors.New("connection reset")}
	sink := &RabbitMQSink{conn: conn, channel: &fakeChannel{}, queue: "documents"}

	assert.ErrorContains(t, sink.Close(), "connection reset")

	ok := &RabbitMQSink{conn: &fakeConn{}, channel: &fakeChannel{}}
	assert.NoError(t, ok.Close())
}
