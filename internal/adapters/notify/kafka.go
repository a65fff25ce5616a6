package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaSender publishes mail commands for a downstream mailer service.
// Messages are keyed by recipient so one recipient's mail stays ordered.
type KafkaSender struct {
	writer *kafka.Writer
	topic  string
	from   string
}

// NewKafkaSender creates a Kafka producer for the mail topic
func NewKafkaSender(brokers []string, topic, from string) *KafkaSender {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            3,
		WriteTimeout:           5 * time.Second,
	}
	log.Printf("✅ Kafka mail producer created [brokers: %s, topic: %s]", strings.Join(brokers, ","), topic)
	return &KafkaSender{writer: writer, topic: topic, from: from}
}

type mailCommand struct {
	From string `json:"from"`
	Message
	QueuedAt time.Time `json:"queued_at"`
}

// Send publishes the message
func (s *KafkaSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(mailCommand{From: s.from, Message: msg, QueuedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("%w: marshal mail command: %v", ErrPermanent, err)
	}
	if err := s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strings.ToLower(msg.To)),
		Value: payload,
	}); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", s.topic, err)
	}
	return nil
}

// Close flushes and closes the producer
func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
