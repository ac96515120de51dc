package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisChannel carries change announcements between instances
const RedisChannel = "landing:documents"

// RedisSignal is a Signal over Redis pub/sub
type RedisSignal struct {
	rdb        *redis.Client
	instanceID string
	log        *zap.Logger
}

// wireEvent keeps the payload raw so remote subscribers get the saved JSON untouched
type wireEvent struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
	Origin  string          `json:"origin"`
	At      time.Time       `json:"at"`
}

// NewRedisSignal connects to url and verifies connectivity
func NewRedisSignal(url, instanceID string, log *zap.Logger) (*RedisSignal, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisSignal{rdb: rdb, instanceID: instanceID, log: log.Named("signal")}, nil
}

// Announce publishes e for the other instances
func (s *RedisSignal) Announce(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(wireEvent{
		Topic:   e.Topic,
		Payload: payload,
		Origin:  s.instanceID,
		At:      e.At,
	})
	if err != nil {
		return err
	}
	return s.rdb.Publish(ctx, RedisChannel, msg).Err()
}

// Listen receives announcements until ctx is done
func (s *RedisSignal) Listen(ctx context.Context, deliver func(Event)) error {
	sub := s.rdb.Subscribe(ctx, RedisChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe failed: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var we wireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &we); err != nil {
				s.log.Warn("dropping unreadable announcement", zap.Error(err))
				continue
			}
			if we.Origin == s.instanceID {
				continue
			}
			deliver(Event{Topic: we.Topic, Payload: we.Payload, Origin: we.Origin, At: we.At})
		}
	}
}

// Close releases the redis client
func (s *RedisSignal) Close() error {
	return s.rdb.Close()
}
