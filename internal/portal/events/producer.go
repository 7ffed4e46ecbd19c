// Package events publishes portal state changes to Kafka. The producer is
// the outbound notification sink: every moderation or account state change
// becomes one message, consumed downstream by the mailer and any other
// subscriber.
package events

import (
	"context"
	"encoding/json"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	CompanyCreated      EventType = "company_created"
	CompanyUpdated      EventType = "company_updated"
	CompanyDeleted      EventType = "company_deleted"
	RequestSubmitted    EventType = "request_submitted"
	RequestApproved     EventType = "request_approved"
	RequestRejected     EventType = "request_rejected"
	RequestStatusForced EventType = "request_status_forced"
	RoleChanged         EventType = "role_changed"
)

// Event is the wire format for a single state change. Subject is the ID of
// the entity the event is about and doubles as the partition key.
type Event struct {
	Type    EventType   `json:"type"`
	Subject string      `json:"subject"`
	Payload interface{} `json:"payload,omitempty"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

const sendRetries = 3

func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	// Create topic if it doesn't exist
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}

	err = conn.CreateTopics(topicConfigs...)
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

// Produce enqueues an event for asynchronous delivery. Events are dropped
// when the queue is full rather than blocking the request path.
func (p *Producer) Produce(eventType EventType, subject string, payload interface{}) {
	select {
	case p.events <- Event{Type: eventType, Subject: subject, Payload: payload}:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("subject", subject),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("subject", event.Subject),
		)
		return
	}

	write := func() error {
		return p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(event.Subject),
			Value: value,
		})
	}
	err = backoff.Retry(write, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), sendRetries))
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("subject", event.Subject),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
