package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Candidate is one externally sourced company record arriving on the
// application-database feed.
type Candidate struct {
	Name     string `json:"name"`
	Website  string `json:"website,omitempty"`
	Industry string `json:"industry,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Consumer ingests externally sourced company candidates from Kafka into
// the application database used by search.
type Consumer struct {
	reader  *kafka.Reader
	logger  *zap.Logger
	handler func(context.Context, Candidate) error
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
			Dialer:  kafka.DefaultDialer,
		}),
		logger: logger.Named("appdata_consumer"),
	}
}

// RegisterHandler sets the function invoked for each candidate. Must be
// called before Start.
func (c *Consumer) RegisterHandler(fn func(context.Context, Candidate) error) {
	c.handler = fn
}

// Start consumes until ctx is cancelled. Messages are committed only after
// the handler succeeds, so a failed ingest is retried on redelivery.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("Failed to fetch message", zap.Error(err))
				continue
			}

			var candidate Candidate
			if err := json.Unmarshal(msg.Value, &candidate); err != nil {
				c.logger.Error("Failed to parse candidate",
					zap.Error(err),
					zap.ByteString("value", msg.Value),
				)
				continue
			}

			if err := c.handler(ctx, candidate); err != nil {
				c.logger.Error("Failed to ingest candidate",
					zap.Error(err),
					zap.String("name", candidate.Name),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("Failed to commit message",
					zap.Error(err),
					zap.String("name", candidate.Name),
				)
			}
		}
	}()
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka reader", zap.Error(err))
	}
}
