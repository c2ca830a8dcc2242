package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-maze-agent/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

var ErrGameLocked = errors.New("game is driven by another agent")

// RedisLocker hands out one redsync mutex per game instance.
type RedisLocker struct {
	locker *redsync.Redsync
	ttl    time.Duration
}

// NewRedisLocker initializes a RedisLocker whose locks expire after ttl
// unless released or extended.
func NewRedisLocker(client *redis.Client, ttl time.Duration) (i.Locker, error) {
	if client == nil {
		return nil, errors.New("locker needs a redis client")
	}
	pool := goredis.NewPool(client)
	return &RedisLocker{
		locker: redsync.New(pool),
		ttl:    ttl,
	}, nil
}

// LockKey returns the mutex name of a game.
func LockKey(gameID string) string {
	return fmt.Sprintf("agent:game:%s:lock", gameID)
}

// Acquire takes the game lock with a few quick retries; a game that stays
// locked yields ErrGameLocked.
func (l *RedisLocker) Acquire(ctx context.Context, gameID string) (func() error, error) {
	mutex := l.locker.NewMutex(LockKey(gameID),
		redsync.WithExpiry(l.ttl),
		redsync.WithTries(4),
		redsync.WithRetryDelay(250*time.Millisecond),
	)

	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.As(err, &taken) || errors.Is(err, redsync.ErrFailed) {
			return nil, fmt.Errorf("%w: %s", ErrGameLocked, gameID)
		}
		return nil, err
	}

	return func() error {
		_, err := mutex.Unlock()
		return err
	}, nil
}
