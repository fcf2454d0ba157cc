package kafkain

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"admin_console/internal/core/domain"

	"github.com/segmentio/kafka-go"
)

type StatusChangeIngester interface {
	Ingest(ctx context.Context, change domain.StatusChange) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer moves status change events from Kafka into the audit store.
type Consumer struct {
	reader messageReader
	svc    StatusChangeIngester
	log    *slog.Logger

	fetchBackoff  time.Duration
	ingestBackoff time.Duration
}

type ConsumerConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

func NewConsumer(cfg ConsumerConfig, svc StatusChangeIngester, log *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return newConsumer(r, svc, log)
}

func newConsumer(r messageReader, svc StatusChangeIngester, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	return &Consumer{
		reader:        r,
		svc:           svc,
		log:           log.With(slog.String("component", "kafka")),
		fetchBackoff:  500 * time.Millisecond,
		ingestBackoff: time.Second,
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// Normal shutdown path
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			c.log.Warn("fetch error", slog.Any("err", err))
			sleep(ctx, c.fetchBackoff)
			continue
		}

		change, derr := DecodeStatusChange(msg.Value)
		if derr != nil {
			c.log.Warn("bad message, skip and commit", slog.String("key", string(msg.Key)), slog.Any("err", derr))
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if !c.ingest(ctx, change) {
			return
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Warn("commit error", slog.Any("err", err))
		}
	}
}

// ingest retries the same change until it is stored. The offset of a later
// message must never be committed past one that was not written.
func (c *Consumer) ingest(ctx context.Context, change domain.StatusChange) bool {
	for {
		err := c.svc.Ingest(ctx, change)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		c.log.Error("ingest failed, retrying", slog.Int64("order_id", change.OrderID), slog.Any("err", err))
		sleep(ctx, c.ingestBackoff)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
