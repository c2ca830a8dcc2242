package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-maze-agent/maze"
)

// ActionKind names one of the three commands the environment accepts.
type ActionKind string

const (
	ActionRotate ActionKind = "rotate"
	ActionMove   ActionKind = "move"
	ActionReset  ActionKind = "reset"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is the single command emitted per tick. Rotation is only meaningful
// for ActionRotate.
type Action struct {
	Kind     ActionKind
	Rotation maze.Rotation
}

func Rotate(r maze.Rotation) Action { return Action{Kind: ActionRotate, Rotation: r} }
func Move() Action                  { return Action{Kind: ActionMove} }
func Reset() Action                 { return Action{Kind: ActionReset} }

func (a Action) String() string {
	if a.Kind == ActionRotate {
		return fmt.Sprintf("%s %s", a.Kind, a.Rotation)
	}
	return string(a.Kind)
}

type actionJSON struct {
	Action   ActionKind     `json:"action"`
	Rotation *maze.Rotation `json:"rotation,omitempty"`
}

// MarshalJSON encodes the wire form, e.g. {"action":"rotate","rotation":90}.
func (a Action) MarshalJSON() ([]byte, error) {
	out := actionJSON{Action: a.Kind}
	if a.Kind == ActionRotate {
		r := a.Rotation
		out.Rotation = &r
	}
	return json.Marshal(out)
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var in actionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch in.Action {
	case ActionMove, ActionReset:
		*a = Action{Kind: in.Action}
	case ActionRotate:
		if in.Rotation == nil || !in.Rotation.IsValid() {
			return fmt.Errorf("%w: rotate without a valid rotation", ErrUnknownAction)
		}
		*a = Rotate(*in.Rotation)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, in.Action)
	}
	return nil
}
