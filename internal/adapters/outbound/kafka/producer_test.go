package kafkaout

import (
	"context"
	"errors"
	"testing"
	"time"

	"admin_console/internal/core/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishKeysByOrderID(t *testing.T) {
	rw := &recordingWriter{}
	p := &Producer{w: rw}
	at := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), domain.StatusChange{
		OrderID: 7, From: domain.StatusPending, To: domain.StatusShipped, SessionID: "s1", ChangedAt: at,
	})
	require.NoError(t, err)
	require.Len(t, rw.msgs, 1)

	assert.Equal(t, "7", string(rw.msgs[0].Key))
	assert.Equal(t, at, rw.msgs[0].Time)
	assert.JSONEq(t,
		`{"order_id":7,"from":"Pending","to":"Shipped","session_id":"s1","changed_at":"2025-04-10T12:00:00Z"}`,
		string(rw.msgs[0].Value))
}

func TestPublishWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &Producer{w: &recordingWriter{err: boom}}

	err := p.Publish(context.Background(), domain.StatusChange{OrderID: 1, To: domain.StatusShipped, ChangedAt: time.Now()})
	assert.ErrorIs(t, err, boom)
}
