package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff"
	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Subscriber reads the trade topic in order and hands each trade to a handler.
type Subscriber struct {
	r   messageReader
	cfg Config
	log *zap.Logger
}

func NewSubscriber(cfg Config, log *zap.Logger) *Subscriber {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	})
	return newSubscriber(r, cfg, log)
}

func newSubscriber(r messageReader, cfg Config, log *zap.Logger) *Subscriber {
	cfg.setDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Subscriber{r: r, cfg: cfg, log: log.With(zap.String("topic", cfg.Topic))}
}

// Run blocks until ctx is done or the reader fails. Undecodable messages are
// logged and committed; a handler error is retried with backoff and, once
// retries run out, returned.
func (s *Subscriber) Run(ctx context.Context, handler func(context.Context, Message) error) error {
	if s == nil || s.r == nil {
		return errNotInitialized
	}
	for {
		m, err := s.r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("fetch trade: %w", err)
		}

		msg, err := decode(m)
		if err != nil {
			s.log.Warn("skipping message", zap.Int64("offset", m.Offset), zap.Error(err))
		} else {
			op := func() error { return handler(ctx, msg) }
			if err := backoff.Retry(op, newBackoff(ctx, s.cfg.BackoffMax, s.cfg.MaxRetries)); err != nil {
				return fmt.Errorf("handle trade at offset %d: %w", m.Offset, err)
			}
		}

		if err := s.r.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit offset %d: %w", m.Offset, err)
		}
	}
}

func (s *Subscriber) Close() error {
	if s == nil || s.r == nil {
		return nil
	}
	return s.r.Close()
}
