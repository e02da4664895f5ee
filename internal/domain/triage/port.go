package triage

import (
	"context"
	"io"
)

// Publisher port (outbound queue backend)
type Publisher interface {
	Publish(ctx context.Context, queue string, id RequestID, msg QueueMessage) error
}

// ImageStore port (staging area for uploads)
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	Get(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
}
