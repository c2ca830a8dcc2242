package sortedstorage

import (
	"context"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze-agent/domain"
	"github.com/beka-birhanu/vinom-maze-agent/service/i"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLeaderboard keeps one sorted set per level, scored by tick count.
type RedisLeaderboard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLeaderboard initializes a RedisLeaderboard. A level's board expires
// ttl after its first entry; zero keeps boards forever.
func NewRedisLeaderboard(client *redis.Client, ttl time.Duration) (i.Leaderboard, error) {
	if client == nil {
		return nil, fmt.Errorf("leaderboard needs a redis client")
	}
	return &RedisLeaderboard{
		client: client,
		ttl:    ttl,
	}, nil
}

// LeaderboardKey returns the sorted set key of a level.
func LeaderboardKey(levelID string) string {
	return fmt.Sprintf("agent:leaderboard:%s", levelID)
}

// Record adds a solved run. A run id already on the board keeps its best score.
func (l *RedisLeaderboard) Record(ctx context.Context, levelID string, runID uuid.UUID, ticks int) error {
	key := LeaderboardKey(levelID)
	err := l.client.ZAddArgs(ctx, key, redis.ZAddArgs{
		LT:      true,
		Members: []redis.Z{{Score: float64(ticks), Member: runID.String()}},
	}).Err()
	if err != nil {
		return err
	}

	// Set expiration only if it's not already set
	if l.ttl > 0 {
		ttl, err := l.client.TTL(ctx, key).Result()
		if err == nil && ttl == -1 {
			_ = l.client.Expire(ctx, key, l.ttl).Err()
		}
	}

	return nil
}

// Top retrieves up to n runs with the fewest ticks.
func (l *RedisLeaderboard) Top(ctx context.Context, levelID string, n int64) ([]dmn.LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	scored, err := l.client.ZRangeWithScores(ctx, LeaderboardKey(levelID), 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]dmn.LeaderboardEntry, 0, len(scored))
	for _, z := range scored {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		entries = append(entries, dmn.LeaderboardEntry{RunID: id, Ticks: int(z.Score)})
	}
	return entries, nil
}

// Count returns the number of runs on a level's board.
func (l *RedisLeaderboard) Count(ctx context.Context, levelID string) (int64, error) {
	return l.client.ZCard(ctx, LeaderboardKey(levelID)).Result()
}
