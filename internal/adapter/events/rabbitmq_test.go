package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"realestate-backend/internal/domain/event"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := newRabbitPublisher(ch, "ex", nil)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), event.Event{
		Type:       event.SubscriptionExpired,
		OccurredAt: at,
		Payload:    map[string]any{"subscription_id": "abc"},
	})
	require.NoError(t, err)
	require.Equal(t, "ex", ch.exchange)
	require.Equal(t, event.SubscriptionExpired, ch.key)
	require.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	require.Equal(t, "application/json", ch.msg.ContentType)

	var got event.Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	require.Equal(t, "abc", got.Payload["subscription_id"])

	require.NoError(t, p.Close())
	require.True(t, ch.closed)
}

func TestRabbitPublisher_PublishError(t *testing.T) {
	p := newRabbitPublisher(&fakeChannel{err: errors.New("channel closed")}, "ex", nil)
	err := p.Publish(context.Background(), event.Event{Type: event.FeaturedActivated})
	require.ErrorContains(t, err, "channel closed")
}

func TestLogPublisher(t *testing.T) {
	require.NoError(t, NewLogPublisher(nil).Publish(context.Background(), event.Event{Type: event.FeaturedActivated}))
}
