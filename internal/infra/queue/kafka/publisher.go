package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

// Publisher writes each message to the topic named after its queue. A writer is
// created and closed per publish.
type Publisher struct {
	brokers []string
}

func NewPublisher(brokers []string) *Publisher {
	return &Publisher{brokers: brokers}
}

func (p *Publisher) Publish(ctx context.Context, queue string, id triage.RequestID, msg triage.QueueMessage) error {
	m, err := message(id, msg)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal message: %v", triage.ErrQueuePublishFailed, err)
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  queue,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		MaxAttempts:            1,
	}
	werr := w.WriteMessages(ctx, m)
	cerr := w.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return fmt.Errorf("%w: kafka topic %s: %v", triage.ErrQueuePublishFailed, queue, err)
	}

	log.Printf("queue=%s id=%s bytes=%d published", queue, id, len(m.Value))
	return nil
}

func message(id triage.RequestID, msg triage.QueueMessage) (kafka.Message, error) {
	body, err := msg.Encode()
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(id),
		Value: body,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}, nil
}

// Check connects to the first reachable broker.
func (p *Publisher) Check(ctx context.Context) error {
	var errs []error
	for _, b := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", b)
		if err == nil {
			return conn.Close()
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
