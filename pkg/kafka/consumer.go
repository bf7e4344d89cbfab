package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	applogger "FinDash/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from one topic.
type MessageHandler interface {
	Topic() string
	Handle(ctx context.Context, data []byte) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer runs one group reader per registered handler. Messages are handled in order,
// retried with jittered backoff, and committed after the last attempt whether or not
// it succeeded so a poison message cannot wedge the partition.
type Consumer struct {
	cfg       *ConsumerConfig
	log       *applogger.Logger
	handlers  map[string]MessageHandler
	readers   map[string]messageReader
	newReader func(topic string) messageReader
	hook      ConsumerHook

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewConsumer(log *applogger.Logger, opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:    "findash",
		RetryMax:   3,
		BackoffMin: 100 * time.Millisecond,
		BackoffMax: 2 * time.Second,
		MinBytes:   1,
		MaxBytes:   1 << 20,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	c := &Consumer{
		cfg:      cfg,
		log:      log,
		handlers: make(map[string]MessageHandler),
		readers:  make(map[string]messageReader),
		hook:     NoopHook{},
	}
	c.newReader = func(topic string) messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    topic,
			GroupID:  cfg.GroupID,
			MinBytes: cfg.MinBytes,
			MaxBytes: cfg.MaxBytes,
			MaxWait:  time.Second,
		})
	}
	initConsumerMetricsOnce()
	return c, nil
}

// RegisterHandler must be called before Start. A second handler for the same topic is ignored.
func (c *Consumer) RegisterHandler(h MessageHandler) {
	if _, ok := c.handlers[h.Topic()]; ok {
		c.log.Warn("kafka consumer: handler already registered", applogger.String("topic", h.Topic()))
		return
	}
	c.handlers[h.Topic()] = h
}

// WithHook sets the lifecycle hook.
func (c *Consumer) WithHook(h ConsumerHook) {
	if h != nil {
		c.hook = h
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	for topic, h := range c.handlers {
		r := c.newReader(topic)
		c.readers[topic] = r
		c.wg.Add(1)
		go c.consume(ctx, h, r)
		c.log.Info("kafka consumer: started", applogger.String("topic", topic), applogger.String("group", c.cfg.GroupID))
	}
	return nil
}

// Stop cancels the readers and waits for in-flight handling, bounded by ctx.
func (c *Consumer) Stop(ctx context.Context) error {
	var err error
	c.stopOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		done := make(chan struct{})
		go func() {
			c.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			err = fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
		}
		for topic, r := range c.readers {
			if cerr := r.Close(); cerr != nil {
				c.log.Warn("kafka consumer: close reader", applogger.String("topic", topic), applogger.Error(cerr))
			}
		}
	})
	return err
}

func (c *Consumer) consume(ctx context.Context, h MessageHandler, r messageReader) {
	defer c.wg.Done()
	topic := h.Topic()
	fails := 0

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fails++
			c.log.Warn("kafka consumer: fetch failed", applogger.String("topic", topic), applogger.Error(err))
			if !sleepCtx(ctx, backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, fails)) {
				return
			}
			continue
		}
		fails = 0

		if err := c.process(ctx, h, msg); err != nil {
			consumerHandled.WithLabelValues(topic, "error").Inc()
			c.log.Error("kafka consumer: handler failed",
				applogger.String("topic", topic),
				applogger.Int64("offset", msg.Offset),
				applogger.Error(err))
		} else {
			consumerHandled.WithLabelValues(topic, "ok").Inc()
		}

		if err := r.CommitMessages(context.WithoutCancel(ctx), msg); err != nil {
			c.log.Warn("kafka consumer: commit failed", applogger.String("topic", topic), applogger.Error(err))
		}
	}
}

// process runs the handler with up to RetryMax retries.
func (c *Consumer) process(ctx context.Context, h MessageHandler, msg kafka.Message) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = safeCall(func() error {
			hctx, berr := c.hook.BeforeHandle(ctx, msg)
			if berr != nil {
				return berr
			}
			herr := h.Handle(hctx, msg.Value)
			c.hook.AfterHandle(hctx, msg, herr)
			return herr
		})
		if err == nil || attempt > c.cfg.RetryMax || errors.Is(err, ErrPermanent) {
			return err
		}
		if !sleepCtx(ctx, backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempt)) {
			return err
		}
	}
}

// ErrPermanent marks a handler error that retrying cannot fix (e.g. an undecodable payload).
var ErrPermanent = errors.New("permanent failure")

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	if attempt < 1 {
		attempt = 1
	}
	exp := max
	if attempt < 32 {
		if e := min << uint(attempt-1); e > 0 && e < max {
			exp = e
		}
	}
	// up to 50% jitter
	if half := int64(exp) / 2; half > 0 {
		exp -= time.Duration(rand.Int63n(half))
	}
	return exp
}
