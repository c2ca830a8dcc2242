package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeReset        Outcome = "reset"
	OutcomePathNotFound Outcome = "path-not-found"
	OutcomeError        Outcome = "error"
	OutcomeAborted      Outcome = "aborted"
)

var (
	ErrRunNotFound    = errors.New("run not found")
	ErrMissingGameID  = errors.New("run has no game id")
	ErrUnknownOutcome = errors.New("unknown run outcome")
)

// RunRecord represents the BSON version of a finished run for the journal.
type RunRecord struct {
	ID         uuid.UUID `bson:"_id" json:"id"`
	GameID     string    `bson:"gameId" json:"gameId"`
	LevelID    string    `bson:"levelId" json:"levelId"`
	Ticks      int       `bson:"ticks" json:"ticks"`
	Outcome    Outcome   `bson:"outcome" json:"outcome"`
	Failure    string    `bson:"failure,omitempty" json:"failure,omitempty"`
	Map        string    `bson:"map" json:"map"`
	StartedAt  time.Time `bson:"startedAt" json:"startedAt"`
	FinishedAt time.Time `bson:"finishedAt" json:"finishedAt"`
}

// RunConfig holds the parameters of a finished run.
type RunConfig struct {
	ID        uuid.UUID
	GameID    string
	LevelID   string
	Ticks     int
	Outcome   Outcome
	Failure   error
	Map       string
	StartedAt time.Time
}

// NewRunRecord validates the run and stamps its finish time.
func NewRunRecord(config RunConfig) (*RunRecord, error) {
	if config.GameID == "" {
		return nil, ErrMissingGameID
	}
	switch config.Outcome {
	case OutcomeReset, OutcomePathNotFound, OutcomeError, OutcomeAborted:
	default:
		return nil, ErrUnknownOutcome
	}

	record := &RunRecord{
		ID:         config.ID,
		GameID:     config.GameID,
		LevelID:    config.LevelID,
		Ticks:      config.Ticks,
		Outcome:    config.Outcome,
		Map:        config.Map,
		StartedAt:  config.StartedAt,
		FinishedAt: time.Now().UTC(),
	}
	if config.Failure != nil {
		record.Failure = config.Failure.Error()
	}
	return record, nil
}

// Solved reports whether the run found its way to the goal.
func (r *RunRecord) Solved() bool {
	return r.Outcome == OutcomeReset
}

// LeaderboardEntry is one ranked run.
type LeaderboardEntry struct {
	RunID uuid.UUID `json:"runId"`
	Ticks int       `json:"ticks"`
}

// RunSnapshot is the live view of the run in progress.
type RunSnapshot struct {
	RunID      uuid.UUID `json:"runId"`
	GameID     string    `json:"gameId"`
	LevelID    string    `json:"levelId"`
	Ticks      int       `json:"ticks"`
	Phase      string    `json:"phase"`
	LastAction string    `json:"lastAction,omitempty"`
	Outcome    Outcome   `json:"outcome,omitempty"`
	Map        string    `json:"map"`
	StartedAt  time.Time `json:"startedAt"`
}
