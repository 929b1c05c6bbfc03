// Package events publishes application lifecycle events to Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hirescore/internal/config"
	"hirescore/internal/logging"
	"hirescore/pkg/models"
)

// Publisher broadcasts domain events. Failures never affect the request that
// produced the event.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisPublisher publishes JSON events on a single channel
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  logging.Logger
}

// NewPublisher returns a Redis publisher, or a no-op publisher when Redis is disabled
func NewPublisher(cfg *config.Config, logger logging.Logger) (Publisher, error) {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, events will not be published")
		return NopPublisher{}, nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	timeout := cfg.Redis.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	return NewRedisPublisher(redis.NewClient(opts), cfg.Redis.Channel, logger), nil
}

func NewRedisPublisher(client *redis.Client, channel string, logger logging.Logger) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  logger.WithField("component", "events"),
	}
}

// Publish sends the event on the configured channel
func (p *RedisPublisher) Publish(ctx context.Context, event models.Event) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}

	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	p.logger.Debug("Event published", map[string]interface{}{
		"type":           string(event.Type),
		"application_id": event.ApplicationID,
		"receivers":      receivers,
	})
	return nil
}

// Ping tests the Redis connection
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// Encode renders the wire form of an event
func Encode(event models.Event) ([]byte, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return payload, nil
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.Event) error { return nil }
func (NopPublisher) Ping(context.Context) error                  { return nil }
func (NopPublisher) Close() error                                { return nil }
