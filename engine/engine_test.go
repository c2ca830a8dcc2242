package engine

import (
	"encoding/json"
	"testing"

	"github.com/beka-birhanu/vinom-maze-agent/maze"
	"github.com/beka-birhanu/vinom-maze-agent/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type layout struct {
	rows, columns int
	start, goal   maze.Position
}

func (l layout) at(p maze.Position, heading maze.Rotation, walls maze.WallMask) Observation {
	return Observation{
		Rows:     l.rows,
		Columns:  l.columns,
		Start:    l.start,
		Goal:     l.goal,
		Position: p,
		Heading:  heading,
		Walls:    walls,
	}
}

func pos(x, y int) maze.Position { return maze.Position{X: x, Y: y} }

const (
	n = maze.NorthWallBit
	e = maze.EastWallBit
	s = maze.SouthWallBit
	w = maze.WestWallBit
)

func decide(t *testing.T, eng *Engine, obs Observation) Action {
	t.Helper()
	action, err := eng.Decide(obs)
	require.NoError(t, err)
	return action
}

func TestDecideFirstTick(t *testing.T) {
	eng := New(nil)
	assert.Equal(t, Idle, eng.Phase())
	assert.Empty(t, eng.Render())

	_, err := eng.Decide(layout{rows: 0, columns: 3}.at(pos(0, 0), maze.North, 0))
	assert.ErrorIs(t, err, maze.ErrInvalidDimensions)
	assert.Equal(t, Idle, eng.Phase())
}

func TestDecideOpenCorridor(t *testing.T) {
	// 1x3 without inner walls: the first tick heads east, it never resets.
	l := layout{rows: 1, columns: 3, start: pos(0, 0), goal: pos(2, 0)}
	eng := New(nil)

	assert.Equal(t, Rotate(maze.East), decide(t, eng, l.at(pos(0, 0), maze.North, 0)))
	assert.Equal(t, Exploring, eng.Phase())
	assert.Equal(t, Move(), decide(t, eng, l.at(pos(0, 0), maze.East, 0)))
}

func TestDecideResetsOnceExplored(t *testing.T) {
	// 2x2 where the start only opens onto the goal.
	l := layout{rows: 2, columns: 2, start: pos(0, 0), goal: pos(1, 0)}
	eng := New(nil)

	assert.Equal(t, Reset(), decide(t, eng, l.at(pos(0, 0), maze.South, n|s|w)))
	assert.Equal(t, ResetIssued, eng.Phase())
	assert.Equal(t, []maze.Position{pos(0, 0), pos(1, 0)}, eng.Route())

	// The restarted run replays the installed route.
	assert.Equal(t, Rotate(maze.East), decide(t, eng, l.at(pos(0, 0), maze.North, n|s|w)))
	assert.Equal(t, Replaying, eng.Phase())
	assert.Equal(t, Move(), decide(t, eng, l.at(pos(0, 0), maze.East, n|s|w)))
	assert.Nil(t, eng.Route())
}

func TestDecideUnreachableGoal(t *testing.T) {
	l := layout{rows: 1, columns: 3, start: pos(0, 0), goal: pos(2, 0)}
	eng := New(nil)

	assert.Equal(t, Move(), decide(t, eng, l.at(pos(0, 0), maze.East, n|s|w)))

	action, err := eng.Decide(l.at(pos(1, 0), maze.East, n|e|s))
	assert.ErrorIs(t, err, ErrPathNotFound)
	assert.ErrorIs(t, err, planner.ErrPathNotFound)
	assert.Equal(t, Action{}, action)
	assert.Equal(t, AllExplored, eng.Phase())
}

func TestDecideLongRangeExploration(t *testing.T) {
	// (0,0)-(1,0)-(2,0) corridor, the goal hangs below (2,0).
	l := layout{rows: 2, columns: 3, start: pos(1, 0), goal: pos(2, 1)}
	eng := New(nil)

	assert.Equal(t, Move(), decide(t, eng, l.at(pos(1, 0), maze.East, n|s)))

	// Dead end on the east side: head back for (0,0).
	assert.Equal(t, Rotate(maze.West), decide(t, eng, l.at(pos(2, 0), maze.East, n|e)))
	assert.Equal(t, FollowingPath, eng.Phase())
	assert.Equal(t, []maze.Position{pos(2, 0), pos(1, 0), pos(0, 0)}, eng.Route())

	assert.Equal(t, Move(), decide(t, eng, l.at(pos(2, 0), maze.West, n|e)))
	assert.Equal(t, Move(), decide(t, eng, l.at(pos(1, 0), maze.West, n|s)))
	assert.Nil(t, eng.Route())

	assert.Equal(t, Reset(), decide(t, eng, l.at(pos(0, 0), maze.West, n|s|w)))

	// Start to goal cuts the corner at (2,0) in a single diagonal move.
	assert.Equal(t, []maze.Position{pos(1, 0), pos(2, 1)}, eng.Route())
	assert.Equal(t, Rotate(maze.SouthEast), decide(t, eng, l.at(pos(1, 0), maze.North, n|s)))
	assert.Equal(t, Move(), decide(t, eng, l.at(pos(1, 0), maze.SouthEast, n|s)))
	assert.Equal(t, Replaying, eng.Phase())
}

func TestDecideStartOnGoal(t *testing.T) {
	l := layout{rows: 1, columns: 2, start: pos(0, 0), goal: pos(0, 0)}
	eng := New(nil)

	assert.Equal(t, Reset(), decide(t, eng, l.at(pos(0, 0), maze.North, n|s|w)))
	assert.Equal(t, Replaying, eng.Phase())
	assert.Nil(t, eng.Route())

	action, err := eng.Decide(l.at(pos(0, 0), maze.North, n|s|w))
	assert.ErrorIs(t, err, ErrRunComplete)
	assert.Equal(t, Action{}, action)
}

func TestDecideAfterReplay(t *testing.T) {
	l := layout{rows: 2, columns: 2, start: pos(0, 0), goal: pos(1, 0)}
	eng := New(nil)

	assert.Equal(t, Reset(), decide(t, eng, l.at(pos(0, 0), maze.East, n|s|w)))
	assert.Equal(t, Move(), decide(t, eng, l.at(pos(0, 0), maze.East, n|s|w)))

	_, err := eng.Decide(l.at(pos(1, 0), maze.East, n|e))
	assert.ErrorIs(t, err, ErrRunComplete)
}

func TestDecideDropsStaleRoute(t *testing.T) {
	l := layout{rows: 2, columns: 2, start: pos(0, 0), goal: pos(1, 0)}
	eng := New(nil)

	require.Equal(t, Reset(), decide(t, eng, l.at(pos(0, 0), maze.East, n|s|w)))

	// A late tick from the old run does not start on the route: it is
	// discarded and the reset is asked for again.
	assert.Equal(t, Reset(), decide(t, eng, l.at(pos(0, 1), maze.East, n|e|s|w)))
	assert.Equal(t, ResetIssued, eng.Phase())
	assert.Equal(t, Move(), decide(t, eng, l.at(pos(0, 0), maze.East, n|s|w)))
}

func TestDecideNoFrontierLeft(t *testing.T) {
	l := layout{rows: 2, columns: 3, start: pos(1, 0), goal: pos(2, 1)}
	eng := New(nil)

	require.Equal(t, Move(), decide(t, eng, l.at(pos(1, 0), maze.East, n|s)))

	// (2,0) claims to be sealed, so the frontier at (0,0) is unreachable.
	_, err := eng.Decide(l.at(pos(2, 0), maze.East, n|e|s|w))
	assert.ErrorIs(t, err, maze.ErrNoFrontierLeft)
}

func TestDecideOutOfBounds(t *testing.T) {
	l := layout{rows: 1, columns: 2, start: pos(0, 0), goal: pos(1, 0)}
	eng := New(nil)

	_, err := eng.Decide(l.at(pos(4, 0), maze.North, 0))
	assert.ErrorIs(t, err, maze.ErrOutOfBounds)
}

func TestActionJSON(t *testing.T) {
	cases := []struct {
		action Action
		wire   string
	}{
		{Rotate(maze.East), `{"action":"rotate","rotation":90}`},
		{Rotate(maze.North), `{"action":"rotate","rotation":0}`},
		{Move(), `{"action":"move"}`},
		{Reset(), `{"action":"reset"}`},
	}

	for _, c := range cases {
		t.Run(c.action.String(), func(t *testing.T) {
			data, err := json.Marshal(c.action)
			require.NoError(t, err)
			assert.JSONEq(t, c.wire, string(data))

			var decoded Action
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, c.action, decoded)
		})
	}

	t.Run("Rejects unknown actions", func(t *testing.T) {
		var a Action
		assert.ErrorIs(t, json.Unmarshal([]byte(`{"action":"jump"}`), &a), ErrUnknownAction)
		assert.ErrorIs(t, json.Unmarshal([]byte(`{"action":"rotate","rotation":30}`), &a), ErrUnknownAction)
	})
}
