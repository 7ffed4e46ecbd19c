package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestProducer(logger *zap.Logger, writer KafkaWriter) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, 1000),
		logger:    logger,
		closeChan: make(chan struct{}),
	}
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		logger := zaptest.NewLogger(t)
		producer := newTestProducer(logger, new(MockKafkaWriter))
		subject := uuid.New().String()

		producer.Produce(RequestSubmitted, subject, nil)

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		logger := zap.New(core)
		producer := newTestProducer(logger, new(MockKafkaWriter))
		producer.events = make(chan Event, 1) // Small buffer for test
		subject := uuid.New().String()

		// Fill the channel
		producer.Produce(RequestSubmitted, subject, nil)
		producer.Produce(RequestSubmitted, subject, nil) // This should be dropped

		// Check logs
		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	subject := uuid.New().String()

	t.Run("successful send", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
		producer := newTestProducer(zaptest.NewLogger(t), mockWriter)

		event := Event{Type: RequestApproved, Subject: subject, Payload: map[string]string{"status": "approved"}}
		producer.sendEvent(context.Background(), event)

		value, err := json.Marshal(event)
		assert.NoError(t, err)
		mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, []kafka.Message{
			{
				Key:   []byte(subject),
				Value: value,
			},
		})
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		producer := newTestProducer(zap.New(core), mockWriter)

		// Mock JSON marshaling to force error
		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), Event{Type: RequestRejected, Subject: subject})

		// Verify error logging and that nothing reached the writer
		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		mockWriter.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker unavailable"))
		producer := newTestProducer(zap.New(core), mockWriter)

		producer.sendEvent(context.Background(), Event{Type: RoleChanged, Subject: subject})

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
		// Retried before giving up
		mockWriter.AssertNumberOfCalls(t, "WriteMessages", sendRetries+1)
	})
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)
	producer := newTestProducer(zaptest.NewLogger(t), mockWriter)

	producer.Close()

	mockWriter.AssertCalled(t, "Close")
	select {
	case <-producer.closeChan:
	default:
		t.Error("expected close channel to be closed")
	}
}
