package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Handler processes a consumed Kafka message.
type Handler func(ctx context.Context, msg Message) error

// RetryPolicy controls how often a failing message is retried before it is
// dead-lettered. The backoff doubles after every attempt up to MaxBackoff.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryPolicy retries five times over roughly three seconds.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:    5,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     5 * time.Second,
}

// Publisher is the subset of Producer used for dead-lettering.
type Publisher interface {
	Publish(ctx context.Context, topic string, messages ...Message) error
}

// ConsumerOption customises a Consumer.
type ConsumerOption func(*Consumer)

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) ConsumerOption {
	return func(c *Consumer) { c.retry = p }
}

// WithDeadLetter routes messages that exhausted their retries to topic.
func WithDeadLetter(publisher Publisher, topic string) ConsumerOption {
	return func(c *Consumer) {
		c.deadLetter = publisher
		c.deadLetterTopic = topic
	}
}

// messageReader is the subset of kafkago.Reader the consumer drives.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Config() kafkago.ReaderConfig
	Close() error
}

// Consumer wraps kafka-go reader for consuming messages. A message is
// committed only after the handler succeeded or the message was
// dead-lettered, so a failure never lets a later commit skip it.
type Consumer struct {
	reader          messageReader
	handler         Handler
	logger          *slog.Logger
	retry           RetryPolicy
	deadLetter      Publisher
	deadLetterTopic string
}

// NewConsumer creates a new Consumer for the given topic with the provided handler.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	readerCfg := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024, // 10 MB
	}

	// Configure dialer for TLS and SASL authentication.
	if cfg.TLS || cfg.SASLEnabled {
		dialer := &kafkago.Dialer{}
		if cfg.TLS {
			dialer.TLS = tlsConfig()
		}
		if cfg.SASLEnabled {
			dialer.SASLMechanism = resolveSASL(cfg)
		}
		readerCfg.Dialer = dialer
	}

	return newConsumer(kafkago.NewReader(readerCfg), handler, logger, opts...)
}

func newConsumer(r messageReader, handler Handler, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		reader:  r,
		handler: handler,
		logger:  logger,
		retry:   DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.MaxAttempts < 1 {
		c.retry.MaxAttempts = 1
	}
	return c
}

func tlsConfig() *tls.Config {
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// resolveSASL returns the SASL mechanism named in cfg, or nil when unsupported.
func resolveSASL(cfg Config) sasl.Mechanism {
	switch cfg.SASLMechanism {
	case "SCRAM-SHA-256":
		m, err := scram.Mechanism(scram.SHA256, cfg.SASLUsername, cfg.SASLPassword)
		if err != nil {
			return nil
		}
		return m
	case "SCRAM-SHA-512":
		m, err := scram.Mechanism(scram.SHA512, cfg.SASLUsername, cfg.SASLPassword)
		if err != nil {
			return nil
		}
		return m
	case "PLAIN", "":
		return &plain.Mechanism{
			Username: cfg.SASLUsername,
			Password: cfg.SASLPassword,
		}
	default:
		return nil
	}
}

// Start begins consuming messages. Blocks until the context is canceled.
// It returns an error, without committing, when a message still fails after
// all retries and no dead-letter topic is configured; the message is then
// redelivered to the group on restart.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting", "topic", c.reader.Config().Topic, "group", c.reader.Config().GroupID)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopping due to context cancellation")
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		msg := Message{
			Topic:   m.Topic,
			Key:     m.Key,
			Value:   m.Value,
			Headers: make(map[string]string, len(m.Headers)),
		}
		for _, h := range m.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}

		if err := c.handle(ctx, m, msg); err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping due to context cancellation")
				return nil
			}
			return err
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit error",
				"topic", m.Topic,
				"partition", m.Partition,
				"offset", m.Offset,
				"error", err,
			)
		}
	}
}

// handle runs the handler under the retry policy. A nil return means the
// message may be committed.
func (c *Consumer) handle(ctx context.Context, m kafkago.Message, msg Message) error {
	backoff := c.retry.InitialBackoff
	var err error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if err = c.handler(ctx, msg); err == nil {
			return nil
		}
		c.logger.Warn("handler error",
			"topic", m.Topic,
			"partition", m.Partition,
			"offset", m.Offset,
			"attempt", attempt,
			"error", err,
		)
		if attempt == c.retry.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff *= 2; c.retry.MaxBackoff > 0 && backoff > c.retry.MaxBackoff {
			backoff = c.retry.MaxBackoff
		}
	}

	if c.deadLetter == nil {
		return fmt.Errorf("message %s/%d@%d failed after %d attempts: %w",
			m.Topic, m.Partition, m.Offset, c.retry.MaxAttempts, err)
	}

	dead := Message{Key: msg.Key, Value: msg.Value, Headers: make(map[string]string, len(msg.Headers)+3)}
	for k, v := range msg.Headers {
		dead.Headers[k] = v
	}
	dead.Headers["dlq_source_topic"] = m.Topic
	dead.Headers["dlq_source_offset"] = strconv.FormatInt(m.Offset, 10)
	dead.Headers["dlq_error"] = err.Error()

	if perr := c.deadLetter.Publish(ctx, c.deadLetterTopic, dead); perr != nil {
		return fmt.Errorf("dead-letter message %s/%d@%d: %w", m.Topic, m.Partition, m.Offset, perr)
	}
	c.logger.Error("message dead-lettered",
		"topic", m.Topic,
		"partition", m.Partition,
		"offset", m.Offset,
		"dead_letter_topic", c.deadLetterTopic,
		"error", err,
	)
	return nil
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}
