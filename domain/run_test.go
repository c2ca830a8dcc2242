package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunRecord(t *testing.T) {
	started := time.Now().UTC().Add(-time.Minute)

	t.Run("Valid run", func(t *testing.T) {
		record, err := NewRunRecord(RunConfig{
			ID:        uuid.New(),
			GameID:    "game-1",
			LevelID:   "level-1",
			Ticks:     42,
			Outcome:   OutcomeReset,
			StartedAt: started,
		})
		require.NoError(t, err)
		assert.True(t, record.Solved())
		assert.Empty(t, record.Failure)
		assert.False(t, record.FinishedAt.Before(started))
	})

	t.Run("Failure is kept as text", func(t *testing.T) {
		record, err := NewRunRecord(RunConfig{GameID: "game-1", Outcome: OutcomePathNotFound, Failure: errors.New("sealed goal")})
		require.NoError(t, err)
		assert.False(t, record.Solved())
		assert.Equal(t, "sealed goal", record.Failure)
	})

	t.Run("Rejects incomplete runs", func(t *testing.T) {
		_, err := NewRunRecord(RunConfig{Outcome: OutcomeReset})
		assert.ErrorIs(t, err, ErrMissingGameID)

		_, err = NewRunRecord(RunConfig{GameID: "game-1", Outcome: "won"})
		assert.ErrorIs(t, err, ErrUnknownOutcome)
	})
}
