// Package engine is the per-tick exploration policy. An Engine owns the map of
// one run; every Decide call observes the current cell and answers with
// exactly one Action.
//
// Priority per tick:
//
//  1. record the observation on the map
//  2. keep following the active route
//  3. once nothing is left to explore, plan start to goal and ask for a reset
//  4. step onto an adjacent frontier cell
//  5. plan a route to the most recently discovered frontier cell
package engine

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze-agent/maze"
	"github.com/beka-birhanu/vinom-maze-agent/planner"
)

var (
	// ErrPathNotFound is fatal: the map is fully explored and the goal cannot
	// be reached from the start.
	ErrPathNotFound = planner.ErrPathNotFound
	// ErrRunComplete is returned once the replayed route has reached the goal.
	ErrRunComplete = errors.New("run already complete")
)

// Phase is the coarse state of an Engine.
type Phase int

const (
	Idle Phase = iota
	Exploring
	FollowingPath
	AllExplored
	ResetIssued
	Replaying
)

var phaseNames = map[Phase]string{
	Idle:          "idle",
	Exploring:     "exploring",
	FollowingPath: "following-path",
	AllExplored:   "all-explored",
	ResetIssued:   "reset-issued",
	Replaying:     "replaying",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Observation is one decoded tick.
type Observation struct {
	Rows     int
	Columns  int
	Start    maze.Position
	Goal     maze.Position
	Position maze.Position
	Heading  maze.Rotation
	Walls    maze.WallMask
}

// Logger receives route recovery notes.
type Logger interface {
	Debug(string)
	Warning(string)
}

type Config struct {
	Logger Logger
}

type Engine struct {
	grid     *maze.Grid
	route    *planner.Route
	phase    Phase
	position maze.Position
	heading  maze.Rotation
	logger   Logger
}

// New returns an Idle engine. The map is allocated on the first Decide call
// from the dimensions that tick reports.
func New(c *Config) *Engine {
	e := &Engine{logger: nopLogger{}}
	if c != nil && c.Logger != nil {
		e.logger = c.Logger
	}
	return e
}

// Decide consumes one observation and returns the action to perform. A tick
// outside the map fails with maze.ErrInvalidDimensions or maze.ErrOutOfBounds,
// an unreachable goal with ErrPathNotFound and a stalled exploration with
// maze.ErrNoFrontierLeft. Every error ends the run. Once the replayed route
// has reached the goal further ticks fail with ErrRunComplete.
func (e *Engine) Decide(obs Observation) (Action, error) {
	if e.grid == nil {
		grid, err := maze.NewGrid(obs.Rows, obs.Columns, obs.Start, obs.Goal)
		if err != nil {
			return Action{}, err
		}
		e.grid = grid
		e.phase = Exploring
	}
	if e.phase == Replaying && e.route == nil {
		return Action{}, ErrRunComplete
	}

	e.position, e.heading = obs.Position, obs.Heading
	if err := e.grid.Observe(obs.Position, obs.Walls); err != nil {
		return Action{}, err
	}

	if e.route != nil {
		if action, ok := e.follow(); ok {
			return action, nil
		}
	}

	if e.grid.IsFullyExplored() {
		return e.finish()
	}

	if open := e.grid.OpenNeighbors(e.position); len(open) > 0 {
		e.phase = Exploring
		heading, _ := maze.DirectionTo(e.position, open[0])
		return e.face(heading), nil
	}

	return e.explore()
}

// follow executes the next step of the active route. ok is false when the
// route no longer applies; it is dropped and the caller carries on with the
// remaining priorities in the same tick.
func (e *Engine) follow() (Action, bool) {
	step, ok := e.route.Next()
	if !ok || e.route.Origin != e.position {
		e.logger.Warning(fmt.Sprintf("dropping route: %v: at %v, route starts at %v with %d steps",
			planner.ErrMalformedPath, e.position, e.route.Origin, len(e.route.Steps)))
		e.route = nil
		return Action{}, false
	}

	switch e.phase {
	case ResetIssued, Replaying:
		e.phase = Replaying
	default:
		e.phase = FollowingPath
	}

	if e.heading != step.Heading {
		return Rotate(step.Heading), true
	}

	e.route.Advance()
	if e.route.Done() {
		e.route = nil
	}
	return Move(), true
}

func (e *Engine) finish() (Action, error) {
	e.phase = AllExplored
	start, goal := e.grid.Start(), e.grid.Goal()

	path, err := planner.FindPath(e.grid, start, goal)
	if err != nil {
		return Action{}, fmt.Errorf("explored maze has no route from %v to %v: %w", start, goal, err)
	}
	route, err := planner.NewRoute(path)
	if err != nil {
		return Action{}, err
	}

	if route.Done() {
		// Start is the goal: the restarted run has nothing left to replay.
		e.logger.Debug(fmt.Sprintf("maze explored, start %v is the goal", start))
		e.phase = Replaying
		return Reset(), nil
	}

	e.logger.Debug(fmt.Sprintf("maze explored, route of %d steps to %v installed", len(route.Steps), goal))
	e.route = &route
	e.phase = ResetIssued
	return Reset(), nil
}

func (e *Engine) explore() (Action, error) {
	for {
		target, err := e.grid.PopMostRecentFrontier()
		if err != nil {
			return Action{}, err
		}

		path, err := planner.FindPath(e.grid, e.position, target)
		if errors.Is(err, planner.ErrPathNotFound) {
			e.logger.Warning(fmt.Sprintf("frontier %v unreachable from %v, skipping", target, e.position))
			continue
		}
		if err != nil {
			return Action{}, err
		}

		route, err := planner.NewRoute(path)
		if err != nil {
			return Action{}, err
		}
		e.route = &route
		if action, ok := e.follow(); ok {
			return action, nil
		}
	}
}

func (e *Engine) face(heading maze.Rotation) Action {
	if e.heading != heading {
		return Rotate(heading)
	}
	return Move()
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Position returns the position reported by the latest tick.
func (e *Engine) Position() maze.Position { return e.position }

// Route returns the waypoints of the active route, nil when there is none.
func (e *Engine) Route() []maze.Position {
	if e.route == nil {
		return nil
	}
	return e.route.Waypoints()
}

// Render draws the map with the agent on it. It is empty before the first tick.
func (e *Engine) Render() string {
	if e.grid == nil {
		return ""
	}
	return e.grid.Render(e.position, e.heading)
}

type nopLogger struct{}

func (nopLogger) Debug(string)   {}
func (nopLogger) Warning(string) {}
