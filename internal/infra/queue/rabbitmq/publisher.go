package rabbitmq

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
)

const dialTimeout = 5 * time.Second

// Publisher opens one connection per message. Volume is one message per
// uploaded photo, so there is no pooling.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

func (p *Publisher) dial() (*amqp.Connection, error) {
	return amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
}

// Publish declares the durable queue and publishes msg with publisher confirms.
func (p *Publisher) Publish(ctx context.Context, queue string, id triage.RequestID, msg triage.QueueMessage) error {
	pub, err := publishing(id, msg)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal message: %v", triage.ErrQueuePublishFailed, err)
	}

	conn, err := p.dial()
	if err != nil {
		return fmt.Errorf("%w: failed to connect to RabbitMQ: %v", triage.ErrQueuePublishFailed, err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: failed to open a channel: %v", triage.ErrQueuePublishFailed, err)
	}
	defer channel.Close()

	if _, err := channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("%w: failed to declare queue %s: %v", triage.ErrQueuePublishFailed, queue, err)
	}

	if err := channel.Confirm(false); err != nil {
		return fmt.Errorf("%w: failed to enable publish confirmations: %v", triage.ErrQueuePublishFailed, err)
	}
	confirms := channel.NotifyPublish(make(chan amqp.Confirmation, 1))

	err = channel.PublishWithContext(
		ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		pub,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to publish message: %v", triage.ErrQueuePublishFailed, err)
	}

	select {
	case confirmed, ok := <-confirms:
		if !ok || !confirmed.Ack {
			return fmt.Errorf("%w: broker did not confirm message %s", triage.ErrQueuePublishFailed, id)
		}
	case <-ctx.Done():
		return fmt.Errorf("%w: waiting for confirmation: %v", triage.ErrQueuePublishFailed, ctx.Err())
	}

	log.Printf("queue=%s id=%s bytes=%d published", queue, id, len(pub.Body))
	return nil
}

func publishing(id triage.RequestID, msg triage.QueueMessage) (amqp.Publishing, error) {
	body, err := msg.Encode()
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    string(id),
		Timestamp:    time.Now().UTC(),
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}, nil
}

// Check dials the broker and closes the connection straight away.
func (p *Publisher) Check(ctx context.Context) error {
	conn, err := p.dial()
	if err != nil {
		return err
	}
	return conn.Close()
}
