package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/joripage/limitbook/pkg/orderbook"
	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes trades to the feed topic. Enqueue never blocks the
// caller, which lets it run as an order book trade callback; Run drains
// the queue.
type Publisher struct {
	w     messageWriter
	cfg   Config
	log   *zap.Logger
	queue chan []orderbook.Trade
	now   func() time.Time
}

func NewPublisher(cfg Config, log *zap.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
	}
	return newPublisher(w, cfg, log)
}

func newPublisher(w messageWriter, cfg Config, log *zap.Logger) *Publisher {
	cfg.setDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		w:     w,
		cfg:   cfg,
		log:   log.With(zap.String("topic", cfg.Topic)),
		queue: make(chan []orderbook.Trade, cfg.QueueSize),
		now:   time.Now,
	}
}

// Publish writes trades in order, retrying failed writes with exponential
// backoff up to MaxRetries times.
func (p *Publisher) Publish(ctx context.Context, trades []orderbook.Trade) error {
	if p == nil || p.w == nil {
		return errNotInitialized
	}
	if len(trades) == 0 {
		return nil
	}

	now := p.now()
	msgs := make([]kafka.Message, 0, len(trades))
	for _, t := range trades {
		m, err := encode(p.cfg.Symbol, t, now)
		if err != nil {
			return err
		}
		msgs = append(msgs, m)
	}

	attempt := 0
	op := func() error {
		attempt++
		err := p.w.WriteMessages(ctx, msgs...)
		if err != nil {
			p.log.Warn("publish trades failed", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}
	if err := backoff.Retry(op, newBackoff(ctx, p.cfg.BackoffMax, p.cfg.MaxRetries)); err != nil {
		return fmt.Errorf("publish %d trades: %w", len(trades), err)
	}
	return nil
}

// Enqueue hands trades to Run. When the queue is full the batch is dropped
// and logged.
func (p *Publisher) Enqueue(trades []orderbook.Trade) error {
	batch := make([]orderbook.Trade, len(trades))
	copy(batch, trades)

	select {
	case p.queue <- batch:
		return nil
	default:
		p.log.Error("dropping trades", zap.Int("count", len(trades)), zap.Error(errQueueFull))
		return errQueueFull
	}
}

// Run publishes queued trades until ctx is done, then flushes what is left
// with a short grace period.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case batch := <-p.queue:
			if err := p.Publish(ctx, batch); err != nil {
				p.log.Error("trades lost", zap.Int("count", len(batch)), zap.Error(err))
			}
		case <-ctx.Done():
			p.drain()
			return
		}
	}
}

func (p *Publisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case batch := <-p.queue:
			if err := p.Publish(ctx, batch); err != nil {
				p.log.Error("trades lost on shutdown", zap.Int("count", len(batch)), zap.Error(err))
			}
		default:
			return
		}
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}
