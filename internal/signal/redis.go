package signal

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"studytrack/internal/qerrors"
)

// RedisSlot persists the signal as a Redis key and announces writes on a pub/sub channel
// named after the key.
type RedisSlot struct {
	rdb    *redis.Client
	closed atomic.Bool
	done   chan struct{}
}

var _ Slot = (*RedisSlot)(nil)

func NewRedisSlot(rdb *redis.Client) *RedisSlot {
	return &RedisSlot{rdb: rdb, done: make(chan struct{})}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr string) (*RedisSlot, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", addr)
	}
	return NewRedisSlot(rdb), nil
}

func channelName(key string) string {
	return "studytrack:signal:" + key
}

func (r *RedisSlot) Set(ctx context.Context, key, value, origin string) error {
	if r.closed.Load() {
		return qerrors.ErrSignalClosed
	}
	_, err := r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, 0)
		pipe.Publish(ctx, channelName(key), origin+"|"+value)
		return nil
	})
	return errors.Wrap(err, "writing change signal")
}

func (r *RedisSlot) Get(ctx context.Context, key string) (string, error) {
	if r.closed.Load() {
		return "", qerrors.ErrSignalClosed
	}
	value, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return value, errors.Wrap(err, "reading change signal")
}

func (r *RedisSlot) Watch(ctx context.Context, key string) (<-chan Event, error) {
	if r.closed.Load() {
		return nil, qerrors.ErrSignalClosed
	}
	pubsub := r.rdb.Subscribe(ctx, channelName(key))
	// Wait for the subscription to be confirmed so no write after Watch returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, errors.Wrap(err, "subscribing to change signal")
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				origin, value := splitPayload(msg.Payload)
				select {
				case out <- Event{Key: key, Value: value, Origin: origin}:
				case <-ctx.Done():
					return
				case <-r.done:
					return
				}
			}
		}
	}()
	return out, nil
}

// Close releases the connection. Later calls fail with ErrSignalClosed.
func (r *RedisSlot) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	close(r.done)
	return r.rdb.Close()
}

func splitPayload(payload string) (origin, value string) {
	if i := strings.IndexByte(payload, '|'); i >= 0 {
		return payload[:i], payload[i+1:]
	}
	return "", payload
}
