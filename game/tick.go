// Package game holds the wire shapes of the goldrush "no way out" level: the
// tick a game instance reports and the [action, payload] message framing.
package game

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze-agent/engine"
	"github.com/beka-birhanu/vinom-maze-agent/maze"
)

var ErrInvalidTick = errors.New("invalid tick")

// DecodeError names the field of a tick that failed validation.
type DecodeError struct {
	Field  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%v: %s %s", ErrInvalidTick, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidTick, e.Err}
	}
	return []error{ErrInvalidTick}
}

// Player is the agent as the environment reports it.
type Player struct {
	Position maze.Position `json:"position"`
	Rotation maze.Rotation `json:"rotation"`
}

// Tick is one validated observation.
type Tick struct {
	Rows    int           `json:"rows"`
	Columns int           `json:"columns"`
	Start   maze.Position `json:"start"`
	Target  maze.Position `json:"target"`
	Player  Player        `json:"player"`
	Square  int           `json:"square"`
}

// Observation converts the tick into the engine's input.
func (t Tick) Observation() engine.Observation {
	return engine.Observation{
		Rows:     t.Rows,
		Columns:  t.Columns,
		Start:    t.Start,
		Goal:     t.Target,
		Position: t.Player.Position,
		Heading:  t.Player.Rotation,
		Walls:    maze.WallMask(t.Square),
	}
}

type rawPosition struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

type rawTick struct {
	Rows    *int         `json:"rows"`
	Columns *int         `json:"columns"`
	Start   *rawPosition `json:"start"`
	Target  *rawPosition `json:"target"`
	Player  *struct {
		Position *rawPosition `json:"position"`
		Rotation *int         `json:"rotation"`
	} `json:"player"`
	Square *int `json:"square"`
}

// DecodeTick parses a game state document. Every field is required; the
// returned error is a *DecodeError wrapping ErrInvalidTick.
func DecodeTick(data []byte) (Tick, error) {
	var raw rawTick
	if err := json.Unmarshal(data, &raw); err != nil {
		return Tick{}, &DecodeError{Field: "gameState", Reason: "is not a JSON object", Err: err}
	}

	var t Tick
	if raw.Rows == nil || *raw.Rows <= 0 {
		return Tick{}, &DecodeError{Field: "rows", Reason: "must be a positive integer"}
	}
	if raw.Columns == nil || *raw.Columns <= 0 {
		return Tick{}, &DecodeError{Field: "columns", Reason: "must be a positive integer"}
	}
	t.Rows, t.Columns = *raw.Rows, *raw.Columns

	var err error
	if t.Start, err = t.position("start", raw.Start); err != nil {
		return Tick{}, err
	}
	if t.Target, err = t.position("target", raw.Target); err != nil {
		return Tick{}, err
	}
	if raw.Player == nil {
		return Tick{}, &DecodeError{Field: "player", Reason: "is missing"}
	}
	if t.Player.Position, err = t.position("player.position", raw.Player.Position); err != nil {
		return Tick{}, err
	}
	if raw.Player.Rotation == nil || !maze.Rotation(*raw.Player.Rotation).IsValid() {
		return Tick{}, &DecodeError{Field: "player.rotation", Reason: "must be a multiple of 45 below 360"}
	}
	t.Player.Rotation = maze.Rotation(*raw.Player.Rotation)

	if raw.Square == nil || *raw.Square < 0 || *raw.Square > 15 {
		return Tick{}, &DecodeError{Field: "square", Reason: "must be a wall mask between 0 and 15"}
	}
	t.Square = *raw.Square

	return t, nil
}

func (t Tick) position(field string, raw *rawPosition) (maze.Position, error) {
	if raw == nil || raw.X == nil || raw.Y == nil {
		return maze.Position{}, &DecodeError{Field: field, Reason: "needs both x and y"}
	}
	p := maze.Position{X: *raw.X, Y: *raw.Y}
	if p.X < 0 || p.X >= t.Columns || p.Y < 0 || p.Y >= t.Rows {
		return maze.Position{}, &DecodeError{Field: field, Reason: fmt.Sprintf("%v is outside %dx%d", p, t.Columns, t.Rows)}
	}
	return p, nil
}
