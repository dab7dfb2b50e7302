package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"yt2tutorial/generator"
)

const (
	relayChannelPrefix = "tutorial:progress:"
	relayBuffer        = 64
	relayTimeout       = 2 * time.Second
)

// RedisRelay republishes job progress on Redis pub/sub.
type RedisRelay struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisRelay(redisURL string, logger *slog.Logger) (*RedisRelay, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRelay{client: redis.NewClient(opts), logger: logger.With("component", "redis_relay")}, nil
}

func relayChannel(jobID string) string {
	return relayChannelPrefix + jobID
}

type relayMessage struct {
	JobID string `json:"job_id"`
	generator.Progress
}

// Forward subscribes to events and publishes each one until the stream closes. The returned
// channel is closed once forwarding stops.
func (r *RedisRelay) Forward(jobID string, events *generator.Broadcaster) <-chan struct{} {
	ch, _ := events.Subscribe(relayBuffer)
	done := make(chan struct{})
	go func() {
		defer close(done)
		channel := relayChannel(jobID)
		for p := range ch {
			payload, err := json.Marshal(relayMessage{JobID: jobID, Progress: p})
			if err != nil {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
			err = r.client.Publish(ctx, channel, payload).Err()
			cancel()
			if err != nil {
				r.logger.Warn("publish progress failed", slog.String("channel", channel), slog.Any("error", err))
			}
		}
	}()
	return done
}

func (r *RedisRelay) Close() error {
	return r.client.Close()
}
