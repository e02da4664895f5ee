package rabbitmq

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

// closedAddr returns a local address with nothing listening on it.
func closedAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestPublish_UnreachableBroker(t *testing.T) {
	p := NewPublisher("amqp://guest:guest@" + closedAddr(t) + "/")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := triage.NewQueueMessage(time.Now(), "This is a standard request.", "kitchen.jpg", "standard")
	err := p.Publish(ctx, "standard", "req-1", msg)
	require.ErrorIs(t, err, triage.ErrQueuePublishFailed)
}

func TestCheck_UnreachableBroker(t *testing.T) {
	p := NewPublisher("amqp://guest:guest@" + closedAddr(t) + "/")
	require.Error(t, p.Check(context.Background()))
}

func TestPublishing(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 15, 0, 0, time.UTC)
	pub, err := publishing("req-1", triage.NewQueueMessage(at, "This is a standard request.", "kitchen.jpg", "standard"))
	require.NoError(t, err)
	require.Equal(t, "application/json", pub.ContentType)
	require.Equal(t, "req-1", pub.MessageId)
	require.Equal(t, amqp.Persistent, pub.DeliveryMode)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(pub.Body, &doc))
	require.Equal(t, map[string]any{
		"timestamp":       "2026-03-01T08:15:00Z",
		"analysis_result": "This is a standard request.",
		"image_path":      "kitchen.jpg",
		"severity":        "standard",
	}, doc)
}
