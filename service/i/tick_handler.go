package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze-agent/engine"
	"github.com/beka-birhanu/vinom-maze-agent/game"
)

// TickHandler answers each decoded tick with the action to send back.
type TickHandler interface {
	HandleTick(ctx context.Context, tick game.Tick) (engine.Action, error)

	// Finished reports that no more ticks should be answered.
	Finished() bool
}
