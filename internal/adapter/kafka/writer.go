package kafka

import (
	"context"
	"log/slog"
	"sort"

	"github.com/couchcryptid/dtr-datecode/internal/config"
	"github.com/couchcryptid/dtr-datecode/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader and scheduler.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	return NewTopicWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)
}

// NewTopicWriter creates a Kafka producer for an arbitrary topic.
func NewTopicWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes multiple output events in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = toMessage(events[i])
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

// Publish is LoadBatch under the name the announcer expects.
func (w *Writer) Publish(ctx context.Context, events []domain.OutputEvent) error {
	return w.LoadBatch(ctx, events)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage converts an OutputEvent into a Kafka message with headers in key order.
func toMessage(event domain.OutputEvent) kafkago.Message {
	keys := make([]string, 0, len(event.Headers))
	for k := range event.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafkago.Header, 0, len(keys))
	for _, k := range keys {
		headers = append(headers, kafkago.Header{Key: k, Value: []byte(event.Headers[k])})
	}
	return kafkago.Message{
		Key:     event.Key,
		Value:   event.Value,
		Headers: headers,
	}
}
