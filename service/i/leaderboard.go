package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-maze-agent/domain"
	"github.com/google/uuid"
)

// Leaderboard ranks solved runs of a level by how few ticks they took.
type Leaderboard interface {
	Record(ctx context.Context, levelID string, runID uuid.UUID, ticks int) error
	// Top returns up to n entries, fewest ticks first.
	Top(ctx context.Context, levelID string, n int64) ([]dmn.LeaderboardEntry, error)
	Count(ctx context.Context, levelID string) (int64, error)
}
