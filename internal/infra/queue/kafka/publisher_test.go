package kafka

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

func closedAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestPublish_UnreachableBroker(t *testing.T) {
	p := NewPublisher([]string{closedAddr(t)})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := triage.NewQueueMessage(time.Now(), "No mould was detected in the image.", "hall.png", "nomould")
	err := p.Publish(ctx, "nomould", "req-2", msg)
	require.ErrorIs(t, err, triage.ErrQueuePublishFailed)
}

func TestCheck_UnreachableBroker(t *testing.T) {
	p := NewPublisher([]string{closedAddr(t), closedAddr(t)})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.Error(t, p.Check(ctx))
}

func TestMessage(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 15, 0, 0, time.UTC)
	m, err := message("req-3", triage.NewQueueMessage(at, "No mould was detected in the image.", "hall.png", "nomould"))
	require.NoError(t, err)
	require.Equal(t, []byte("req-3"), m.Key)
	require.Equal(t, "content-type", m.Headers[0].Key)
	require.Equal(t, []byte("application/json"), m.Headers[0].Value)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(m.Value, &doc))
	require.Equal(t, map[string]any{
		"timestamp":       "2026-03-01T08:15:00Z",
		"analysis_result": "No mould was detected in the image.",
		"image_path":      "hall.png",
		"severity":        "nomould",
	}, doc)
}
