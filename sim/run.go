package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze-agent/engine"
	"github.com/beka-birhanu/vinom-maze-agent/service/i"
)

var ErrTickBudget = errors.New("simulation ran out of ticks")

// Stats summarizes one simulated game.
type Stats struct {
	Ticks        int
	Rotations    int
	Moves        int
	Resets       int
	ExploreTicks int  // ticks up to and including the first reset
	ReachedGoal  bool // the agent stands on the goal when the handler finished
}

func (s Stats) String() string {
	return fmt.Sprintf("%d ticks (%d exploring): %d rotations, %d moves, %d resets, goal reached: %t",
		s.Ticks, s.ExploreTicks, s.Rotations, s.Moves, s.Resets, s.ReachedGoal)
}

// Run feeds the maze's ticks to handler and applies its answers until the
// handler reports it is finished. maxTicks of zero means no limit.
func Run(ctx context.Context, m *Maze, handler i.TickHandler, maxTicks int) (Stats, error) {
	var stats Stats

	for !handler.Finished() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if maxTicks > 0 && stats.Ticks >= maxTicks {
			return stats, fmt.Errorf("%w: %d", ErrTickBudget, maxTicks)
		}

		action, err := handler.HandleTick(ctx, m.Tick())
		if err != nil {
			return stats, err
		}
		stats.Ticks++

		if err := m.Apply(action); err != nil {
			return stats, fmt.Errorf("tick %d: %w", stats.Ticks, err)
		}

		switch action.Kind {
		case engine.ActionRotate:
			stats.Rotations++
		case engine.ActionMove:
			stats.Moves++
		case engine.ActionReset:
			stats.Resets++
			if stats.Resets == 1 {
				stats.ExploreTicks = stats.Ticks
			}
		}
	}

	stats.ReachedGoal = m.Position() == m.Goal()
	return stats, nil
}
