// Package feed publishes executed trades to Kafka and tails them back.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/joripage/limitbook/pkg/orderbook"
	kafka "github.com/segmentio/kafka-go"
)

const symbolHeader = "symbol"

var (
	errNotInitialized = errors.New("feed not initialized")
	errQueueFull      = errors.New("trade queue full")
)

type Config struct {
	Brokers    []string
	Topic      string
	GroupID    string
	Symbol     string
	MaxRetries uint64
	BackoffMax time.Duration
	QueueSize  int
}

func (c *Config) setDefaults() {
	if c.BackoffMax == 0 {
		c.BackoffMax = 2 * time.Second
	}
	if c.QueueSize == 0 {
		c.QueueSize = 1024
	}
}

// Message is a trade as it travels on the topic.
type Message struct {
	Symbol string          `json:"symbol,omitempty"`
	Trade  orderbook.Trade `json:"trade"`
	Time   time.Time       `json:"time"`
}

func encode(symbol string, t orderbook.Trade, now time.Time) (kafka.Message, error) {
	b, err := json.Marshal(Message{Symbol: symbol, Trade: t, Time: now})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode trade: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d-%d", t.BuyOrderID, t.SellOrderID)),
		Value: b,
		Time:  now,
	}
	if symbol != "" {
		msg.Headers = []kafka.Header{{Key: symbolHeader, Value: []byte(symbol)}}
	}
	return msg, nil
}

func decode(m kafka.Message) (Message, error) {
	var msg Message
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return Message{}, fmt.Errorf("decode trade at offset %d: %w", m.Offset, err)
	}
	return msg, nil
}

func newBackoff(ctx context.Context, maxInterval time.Duration, retries uint64) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = min(50*time.Millisecond, maxInterval)
	b.MaxInterval = maxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}
