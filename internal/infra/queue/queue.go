package queue

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryanwahyu/mould-triage/internal/domain/triage"
	"github.com/bryanwahyu/mould-triage/internal/infra/queue/rabbitmq"
	"github.com/bryanwahyu/mould-triage/internal/infra/queue/kafka"
)

// Backend publishes triage messages and can report whether the broker is reachable.
type Backend interface {
	triage.Publisher
	Check(ctx context.Context) error
}

// Open picks a backend from the connection string scheme:
// amqp:// and amqps:// go to RabbitMQ, kafka://host:port[,host:port] goes to Kafka.
func Open(connString string) (Backend, error) {
	if strings.TrimSpace(connString) == "" {
		return nil, fmt.Errorf("%w: queue connection string", triage.ErrMissingConfiguration)
	}
	if strings.HasPrefix(strings.ToLower(connString), "endpoint=sb://") {
		return nil, fmt.Errorf("azure service bus connection strings are not supported, use amqp:// or kafka://")
	}
	scheme, rest, ok := strings.Cut(connString, "://")
	if !ok {
		return nil, fmt.Errorf("queue connection string has no scheme")
	}
	switch strings.ToLower(scheme) {
	case "amqp", "amqps":
		return rabbitmq.NewPublisher(connString), nil
	case "kafka":
		brokers := parseBrokers(rest)
		if len(brokers) == 0 {
			return nil, fmt.Errorf("kafka connection string has no brokers")
		}
		return kafka.NewPublisher(brokers), nil
	default:
		return nil, fmt.Errorf("unsupported queue scheme: %s", scheme)
	}
}

func parseBrokers(list string) []string {
	var brokers []string
	for _, b := range strings.Split(list, ",") {
		if b = strings.TrimSuffix(strings.TrimSpace(b), "/"); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
