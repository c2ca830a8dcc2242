package i

import (
	"context"

	dmn "github.com/beka-birhanu/vinom-maze-agent/domain"
	"github.com/google/uuid"
)

// RunJournal defines the interface for run record persistence.
type RunJournal interface {
	// Save inserts or updates a run record.
	// If the run already exists, it updates the record. Otherwise, it creates a new one.
	Save(ctx context.Context, run *dmn.RunRecord) error

	// ByID retrieves a run by its id.
	// Returns dmn.ErrRunNotFound if there is no such run.
	ByID(ctx context.Context, id uuid.UUID) (*dmn.RunRecord, error)
}
