package service

import (
	"context"
	"errors"
	"io"
	"testing"

	dmn "github.com/beka-birhanu/vinom-maze-agent/domain"
	"github.com/beka-birhanu/vinom-maze-agent/engine"
	"github.com/beka-birhanu/vinom-maze-agent/game"
	logger "github.com/beka-birhanu/vinom-maze-agent/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze-agent/maze"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryJournal struct {
	runs map[uuid.UUID]*dmn.RunRecord
	err  error
}

func (j *memoryJournal) Save(_ context.Context, run *dmn.RunRecord) error {
	if j.err != nil {
		return j.err
	}
	j.runs[run.ID] = run
	return nil
}

func (j *memoryJournal) ByID(_ context.Context, id uuid.UUID) (*dmn.RunRecord, error) {
	run, ok := j.runs[id]
	if !ok {
		return nil, dmn.ErrRunNotFound
	}
	return run, nil
}

type memoryLeaderboard struct {
	entries map[string][]dmn.LeaderboardEntry
}

func (l *memoryLeaderboard) Record(_ context.Context, levelID string, runID uuid.UUID, ticks int) error {
	l.entries[levelID] = append(l.entries[levelID], dmn.LeaderboardEntry{RunID: runID, Ticks: ticks})
	return nil
}

func (l *memoryLeaderboard) Top(_ context.Context, levelID string, n int64) ([]dmn.LeaderboardEntry, error) {
	entries := l.entries[levelID]
	if int64(len(entries)) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (l *memoryLeaderboard) Count(_ context.Context, levelID string) (int64, error) {
	return int64(len(l.entries[levelID])), nil
}

func newTestRunner(t *testing.T, opts *RunnerOptions) (*Runner, *memoryJournal, *memoryLeaderboard) {
	t.Helper()
	l, err := logger.New("RUNNER", "", io.Discard)
	require.NoError(t, err)

	journal := &memoryJournal{runs: map[uuid.UUID]*dmn.RunRecord{}}
	board := &memoryLeaderboard{entries: map[string][]dmn.LeaderboardEntry{}}
	opts.GameID = "game-1"
	opts.LevelID = "level-1"
	opts.Journal = journal
	opts.Leaderboard = board

	r, err := NewRunner(l, opts)
	require.NoError(t, err)
	return r, journal, board
}

// twoByTwo is a 2x2 maze whose start only opens east onto the goal.
func twoByTwo(p maze.Position, heading maze.Rotation, square int) game.Tick {
	return game.Tick{
		Rows:    2,
		Columns: 2,
		Start:   maze.Position{X: 0, Y: 0},
		Target:  maze.Position{X: 1, Y: 0},
		Player:  game.Player{Position: p, Rotation: heading},
		Square:  square,
	}
}

func TestRunnerSolvedRun(t *testing.T) {
	r, journal, board := newTestRunner(t, &RunnerOptions{})
	ctx := context.Background()
	start := maze.Position{X: 0, Y: 0}

	action, err := r.HandleTick(ctx, twoByTwo(start, maze.East, 11))
	require.NoError(t, err)
	assert.Equal(t, engine.Reset(), action)
	assert.False(t, r.Finished(), "the restarted run still has to replay the route")

	record, err := journal.ByID(ctx, r.RunID())
	require.NoError(t, err)
	assert.Equal(t, dmn.OutcomeReset, record.Outcome)
	assert.Equal(t, 1, record.Ticks)

	top, err := board.Top(ctx, "level-1", 10)
	require.NoError(t, err)
	assert.Equal(t, []dmn.LeaderboardEntry{{RunID: r.RunID(), Ticks: 1}}, top)

	action, err = r.HandleTick(ctx, twoByTwo(start, maze.East, 11))
	require.NoError(t, err)
	assert.Equal(t, engine.Move(), action)
	assert.True(t, r.Finished())

	snap := r.Snapshot()
	assert.Equal(t, 2, snap.Ticks)
	assert.Equal(t, "replaying", snap.Phase)
	assert.Equal(t, dmn.OutcomeReset, snap.Outcome)
	assert.Equal(t, "move", snap.LastAction)
	assert.NotEmpty(t, snap.Map)

	_, err = r.HandleTick(ctx, twoByTwo(start, maze.East, 11))
	assert.Error(t, err)
}

func TestRunnerStartOnGoal(t *testing.T) {
	r, journal, board := newTestRunner(t, &RunnerOptions{})
	ctx := context.Background()
	tick := game.Tick{
		Rows: 1, Columns: 2,
		Start: maze.Position{X: 0, Y: 0}, Target: maze.Position{X: 0, Y: 0},
		Player: game.Player{Position: maze.Position{X: 0, Y: 0}, Rotation: maze.North},
		Square: 11,
	}

	action, err := r.HandleTick(ctx, tick)
	require.NoError(t, err)
	assert.Equal(t, engine.Reset(), action)
	assert.True(t, r.Finished(), "there is no route to replay")

	assert.Equal(t, dmn.OutcomeReset, journal.runs[r.RunID()].Outcome)
	count, err := board.Count(ctx, "level-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = r.HandleTick(ctx, tick)
	assert.Error(t, err)
}

func TestRunnerUnreachableGoal(t *testing.T) {
	r, journal, board := newTestRunner(t, &RunnerOptions{})
	ctx := context.Background()

	_, err := r.HandleTick(ctx, twoByTwo(maze.Position{X: 0, Y: 0}, maze.East, 15))
	assert.ErrorIs(t, err, engine.ErrPathNotFound)
	assert.True(t, r.Finished())

	record, err := journal.ByID(ctx, r.RunID())
	require.NoError(t, err)
	assert.Equal(t, dmn.OutcomePathNotFound, record.Outcome)
	assert.NotEmpty(t, record.Failure)

	count, err := board.Count(ctx, "level-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunnerTickLimit(t *testing.T) {
	r, journal, _ := newTestRunner(t, &RunnerOptions{MaxTicks: 1})
	ctx := context.Background()

	// 1x3 corridor: the first tick only rotates.
	tick := game.Tick{
		Rows: 1, Columns: 3,
		Start: maze.Position{X: 0, Y: 0}, Target: maze.Position{X: 2, Y: 0},
		Player: game.Player{Position: maze.Position{X: 0, Y: 0}, Rotation: maze.North},
		Square: 11,
	}
	_, err := r.HandleTick(ctx, tick)
	require.NoError(t, err)

	_, err = r.HandleTick(ctx, tick)
	assert.ErrorIs(t, err, ErrTickLimit)
	assert.Equal(t, dmn.OutcomeAborted, journal.runs[r.RunID()].Outcome)
}

func TestRunnerJournalFailureIsNotFatal(t *testing.T) {
	r, journal, _ := newTestRunner(t, &RunnerOptions{})
	journal.err = errors.New("mongo is down")

	action, err := r.HandleTick(context.Background(), twoByTwo(maze.Position{X: 0, Y: 0}, maze.East, 11))
	require.NoError(t, err)
	assert.Equal(t, engine.Reset(), action)
}

func TestRunnerAbort(t *testing.T) {
	r, journal, _ := newTestRunner(t, &RunnerOptions{})
	r.Abort(context.Background(), context.Canceled)

	assert.True(t, r.Finished())
	assert.Equal(t, dmn.OutcomeAborted, journal.runs[r.RunID()].Outcome)

	// The first outcome sticks.
	r.Abort(context.Background(), errors.New("again"))
	assert.Equal(t, context.Canceled.Error(), journal.runs[r.RunID()].Failure)
}

func TestNewRunnerNeedsGame(t *testing.T) {
	_, err := NewRunner(nil, &RunnerOptions{})
	assert.ErrorIs(t, err, ErrMissingGame)
}
