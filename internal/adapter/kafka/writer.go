package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"

	"github.com/couchcryptid/ais-metocean-etl/internal/config"
	"github.com/couchcryptid/ais-metocean-etl/internal/domain"
)

// Writer produces enriched records to a Kafka topic. Writes go through a
// circuit breaker that opens after consecutive failures so a broker outage
// fails batches fast instead of stalling on every write.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return newWriter(w, logger)
}

func newWriter(w messageWriter, logger *slog.Logger) *Writer {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kafka-sink",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Writer{writer: w, breaker: breaker, logger: logger}
}

// LoadBatch publishes the events in a single WriteMessages call. Messages are
// keyed by vessel and report time, so one vessel's reports share a partition.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = toMessage(events[i])
	}
	_, err := w.breaker.Execute(func() (interface{}, error) {
		return nil, w.writer.WriteMessages(ctx, msgs...)
	})
	if err != nil {
		return fmt.Errorf("publish %d enriched records: %w", len(msgs), err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage converts an output event to a Kafka message. Headers are sorted
// by key.
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
