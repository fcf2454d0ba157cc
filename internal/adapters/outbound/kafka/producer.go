package kafkaout

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"admin_console/internal/core/domain"
	"admin_console/internal/ports/outbound"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

// Producer publishes status changes keyed by order id, so all changes of
// one order land on the same partition in order.
type Producer struct {
	w messageWriter
}

func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 50 * time.Millisecond
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &Producer{w: w}
}

func (p *Producer) Publish(ctx context.Context, change domain.StatusChange) error {
	msg, err := EncodeStatusChange(change)
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.w.Close()
}

func EncodeStatusChange(change domain.StatusChange) (kafka.Message, error) {
	b, err := json.Marshal(change)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("json encode: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(change.OrderID, 10)),
		Value: b,
		Time:  change.ChangedAt,
	}, nil
}

var _ outbound.StatusChangePublisher = (*Producer)(nil)
