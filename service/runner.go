package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze-agent/domain"
	"github.com/beka-birhanu/vinom-maze-agent/engine"
	"github.com/beka-birhanu/vinom-maze-agent/game"
	"github.com/beka-birhanu/vinom-maze-agent/service/i"
	"github.com/google/uuid"
)

var (
	ErrTickLimit   = errors.New("tick limit reached")
	ErrMissingGame = errors.New("runner needs a game id")
)

type RunnerOptions struct {
	GameID          string
	LevelID         string
	Journal         i.RunJournal  // optional
	Leaderboard     i.Leaderboard // optional
	MaxTicks        int           // 0 means unlimited
	RenderEveryTick bool
}

// Runner drives one engine through one game instance and records how the
// run ended. It is safe to snapshot while ticks are being handled.
type Runner struct {
	runID     uuid.UUID
	opts      *RunnerOptions
	engine    *engine.Engine
	logger    i.Logger
	startedAt time.Time

	ticks      int
	lastAction *engine.Action
	outcome    dmn.Outcome
	recorded   bool
	done       bool
	sync.RWMutex
}

func NewRunner(logger i.Logger, opts *RunnerOptions) (*Runner, error) {
	if opts == nil || opts.GameID == "" {
		return nil, ErrMissingGame
	}
	if opts.MaxTicks < 0 {
		opts.MaxTicks = 0
	}

	return &Runner{
		runID:     uuid.New(),
		opts:      opts,
		engine:    engine.New(&engine.Config{Logger: logger}),
		logger:    logger,
		startedAt: time.Now().UTC(),
	}, nil
}

// RunID returns the id the run is journaled under.
func (r *Runner) RunID() uuid.UUID {
	return r.runID
}

// HandleTick implements i.TickHandler.
func (r *Runner) HandleTick(ctx context.Context, tick game.Tick) (engine.Action, error) {
	r.Lock()
	defer r.Unlock()

	if r.done {
		return engine.Action{}, fmt.Errorf("run %s is already over", r.runID)
	}

	r.ticks++
	if r.opts.MaxTicks > 0 && r.ticks > r.opts.MaxTicks {
		err := fmt.Errorf("%w: %d", ErrTickLimit, r.opts.MaxTicks)
		r.finish(ctx, dmn.OutcomeAborted, err)
		r.done = true
		return engine.Action{}, err
	}

	action, err := r.engine.Decide(tick.Observation())
	if err != nil {
		outcome := dmn.OutcomeError
		if errors.Is(err, engine.ErrPathNotFound) {
			outcome = dmn.OutcomePathNotFound
		}
		r.logger.Error(fmt.Sprintf("Tick %d: %v\n%s", r.ticks, err, r.engine.Render()))
		r.finish(ctx, outcome, err)
		r.done = true
		return engine.Action{}, err
	}
	r.lastAction = &action

	if r.opts.RenderEveryTick {
		r.logger.Info(fmt.Sprintf("Tick %d (%s): %s\n%s", r.ticks, r.engine.Phase(), action, r.engine.Render()))
	} else {
		r.logger.Debug(fmt.Sprintf("Tick %d (%s): %s", r.ticks, r.engine.Phase(), action))
	}

	if action.Kind == engine.ActionReset && !r.recorded {
		r.logger.Info(fmt.Sprintf("Maze explored in %d ticks, resetting\n%s", r.ticks, r.engine.Render()))
		r.finish(ctx, dmn.OutcomeReset, nil)
	}
	if r.engine.Phase() == engine.Replaying && r.engine.Route() == nil {
		r.logger.Info(fmt.Sprintf("Replay complete after %d ticks", r.ticks))
		r.done = true
	}

	return action, nil
}

// Finished implements i.TickHandler.
func (r *Runner) Finished() bool {
	r.RLock()
	defer r.RUnlock()
	return r.done
}

// Abort ends a run for a reason outside the engine, such as a dropped socket
// or a shutdown. A run that already has an outcome keeps it.
func (r *Runner) Abort(ctx context.Context, cause error) {
	r.Lock()
	defer r.Unlock()
	r.done = true
	r.finish(ctx, dmn.OutcomeAborted, cause)
}

// Snapshot implements i.RunMonitor.
func (r *Runner) Snapshot() dmn.RunSnapshot {
	r.RLock()
	defer r.RUnlock()

	s := dmn.RunSnapshot{
		RunID:     r.runID,
		GameID:    r.opts.GameID,
		LevelID:   r.opts.LevelID,
		Ticks:     r.ticks,
		Phase:     r.engine.Phase().String(),
		Outcome:   r.outcome,
		Map:       r.engine.Render(),
		StartedAt: r.startedAt,
	}
	if r.lastAction != nil {
		s.LastAction = r.lastAction.String()
	}
	return s
}

// finish records the first outcome of the run. Journal and leaderboard
// failures are logged only. Callers hold the lock.
func (r *Runner) finish(ctx context.Context, outcome dmn.Outcome, cause error) {
	if r.recorded {
		return
	}
	r.recorded = true
	r.outcome = outcome

	record, err := dmn.NewRunRecord(dmn.RunConfig{
		ID:        r.runID,
		GameID:    r.opts.GameID,
		LevelID:   r.opts.LevelID,
		Ticks:     r.ticks,
		Outcome:   outcome,
		Failure:   cause,
		Map:       r.engine.Render(),
		StartedAt: r.startedAt,
	})
	if err != nil {
		r.logger.Error(fmt.Sprintf("Building run record: %v", err))
		return
	}

	if r.opts.Journal != nil {
		if err := r.opts.Journal.Save(ctx, record); err != nil {
			r.logger.Warning(fmt.Sprintf("Journaling run %s: %v", r.runID, err))
		} else {
			r.logger.Info(fmt.Sprintf("Run %s journaled as %s", r.runID, outcome))
		}
	}

	if r.opts.Leaderboard != nil && record.Solved() {
		if err := r.opts.Leaderboard.Record(ctx, r.opts.LevelID, r.runID, r.ticks); err != nil {
			r.logger.Warning(fmt.Sprintf("Recording run %s on the leaderboard: %v", r.runID, err))
		}
	}
}
