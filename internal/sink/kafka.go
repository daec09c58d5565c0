package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"dtrecon/internal/aggregate"
)

// RowMessage is the value of one Kafka record.
type RowMessage struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Row         aggregate.Row `json:"row"`
}

// KafkaSink publishes one record per comparison row keyed by damage type,
// so a compacted topic keeps the latest figures per category.
type KafkaSink struct {
	writer kafkaMessageWriter
}

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaSink creates a Kafka publisher.
// bootstrap can be a comma-separated list of host:port.
func NewKafkaSink(bootstrap string, topic string) *KafkaSink {
	var brokers []string
	for _, a := range strings.Split(bootstrap, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			brokers = append(brokers, a)
		}
	}
	return &KafkaSink{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}}
}

// NewKafkaSinkWith is only for tests to inject a fake writer.
func NewKafkaSinkWith(w kafkaMessageWriter) *KafkaSink {
	return &KafkaSink{writer: w}
}

func (k *KafkaSink) Publish(ctx context.Context, r Report) error {
	if len(r.Comparison.Rows) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(r.Comparison.Rows))
	for _, row := range r.Comparison.Rows {
		b, err := json.Marshal(RowMessage{RunID: r.RunID, GeneratedAt: r.GeneratedAt, Row: row})
		if err != nil {
			return fmt.Errorf("marshal %s: %w", row.DamageType, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(row.DamageType), Value: b})
	}
	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(msgs), err)
	}
	return nil
}

// Close releases the underlying writer when it holds connections.
func (k *KafkaSink) Close() error {
	if c, ok := k.writer.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
