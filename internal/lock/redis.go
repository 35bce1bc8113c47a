package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "mufti:chat-lock:"

// RedisLocker distributes per-key locks across replicas using redsync.
type RedisLocker struct {
	client redis.UniversalClient
	rs     *redsync.Redsync
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRedisLocker connects to redisURL and verifies it with a ping.
// ttl bounds how long a crashed holder can keep a chat locked.
func NewRedisLocker(ctx context.Context, redisURL string, ttl time.Duration, log zerolog.Logger) (*RedisLocker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisLocker(client, ttl, log), nil
}

func newRedisLocker(client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLocker{
		client: client,
		rs:     redsync.New(goredis.NewPool(client)),
		ttl:    ttl,
		log:    log.With().Str("component", "redis_locker").Logger(),
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	m := l.rs.NewMutex(keyPrefix+key,
		redsync.WithExpiry(l.ttl),
		// Wait roughly as long as a turn may take before giving up.
		redsync.WithTries(int(l.ttl/(250*time.Millisecond))+1),
		redsync.WithRetryDelay(250*time.Millisecond),
	)
	if err := m.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("acquire chat lock: %w", err)
	}

	// Streams can outlive the expiry, so the lease is renewed until release.
	keepCtx, stop := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		keepAlive(keepCtx, m, l.ttl/3, key, l.log)
	}()

	return func() {
		stop()
		<-stopped

		// The turn's ctx may already be cancelled; releasing must still happen.
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if ok, err := m.UnlockContext(unlockCtx); err != nil || !ok {
			l.log.Warn().Err(err).Str("key", key).Msg("failed to release chat lock")
		}
	}, nil
}

// extender is the part of *redsync.Mutex needed to renew a held lock.
type extender interface {
	ExtendContext(ctx context.Context) (bool, error)
}

// keepAlive extends m every interval until ctx is done.
func keepAlive(ctx context.Context, m extender, interval time.Duration, key string, log zerolog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok, err := m.ExtendContext(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil || !ok {
				log.Warn().Err(err).Str("key", key).Msg("failed to extend chat lock")
			}
		}
	}
}

// Close releases the Redis connection.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
