package i

import "context"

// Locker guarantees a single driver per game instance.
type Locker interface {
	// Acquire blocks until the game is locked or ctx is done. The returned
	// func releases the lock.
	Acquire(ctx context.Context, gameID string) (release func() error, err error)
}
