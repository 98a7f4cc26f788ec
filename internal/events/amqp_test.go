package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (m *mockChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	m.exchange = exchange
	m.key = key
	m.msg = msg
	return m.err
}

func (m *mockChannel) Close() error {
	m.closed = true
	return nil
}

func TestAMQPPublisher_PublishJSON(t *testing.T) {
	ch := &mockChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "lishe.events"}

	ev := UserEvent{UserID: 1, Username: "alice", Mobile: "+1555000111", Status: "VERIFIED", OccurredAt: time.Now().UTC()}
	require.NoError(t, p.PublishJSON(context.Background(), KeyUserVerified, ev))

	assert.Equal(t, "lishe.events", ch.exchange)
	assert.Equal(t, "user.verified", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var decoded UserEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, "alice", decoded.Username)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_Errors(t *testing.T) {
	p := &AMQPPublisher{ch: &mockChannel{err: errors.New("channel closed")}, exchange: "x"}
	assert.EqualError(t, p.PublishJSON(context.Background(), KeyUserOnboarded, UserEvent{}), "channel closed")

	assert.Error(t, p.PublishJSON(context.Background(), KeyUserOnboarded, make(chan int)))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NewNopPublisher().PublishJSON(context.Background(), KeyUserOnboarded, UserEvent{}))
}
