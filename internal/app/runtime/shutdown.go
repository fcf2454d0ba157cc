package runtime

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func NotifyContext(parent context.Context) (context.Context, func()) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Closers runs registered cleanup steps in reverse order of registration.
type Closers struct {
	log   *slog.Logger
	steps []closeStep
}

type closeStep struct {
	name string
	fn   func(ctx context.Context) error
}

func NewClosers(log *slog.Logger) *Closers {
	return &Closers{log: log.With(slog.String("component", "shutdown"))}
}

func (c *Closers) Add(name string, fn func(ctx context.Context) error) {
	c.steps = append(c.steps, closeStep{name: name, fn: fn})
}

func (c *Closers) Close(ctx context.Context) {
	for i := len(c.steps) - 1; i >= 0; i-- {
		s := c.steps[i]
		if err := s.fn(ctx); err != nil {
			c.log.Error("close failed", slog.String("step", s.name), slog.Any("err", err))
			continue
		}
		c.log.Debug("closed", slog.String("step", s.name))
	}
}
