package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/turnos/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled, StatusFinalized},
		StatusConfirmed: {StatusCancelled, StatusFinalized},
	}
	all := []Status{StatusPending, StatusConfirmed, StatusFinalized, StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			err := CanTransition(from, to)
			if want {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, ErrInvalidState, "%s -> %s", from, to)
			}
		}
	}
}

func TestTransitionStampsTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusPending)}
	require.NoError(t, Confirm(ap, now))
	assert.Equal(t, "confirmed", ap.Status)
	assert.Nil(t, ap.FinalizedAt)

	require.NoError(t, Finalize(ap, now))
	require.NotNil(t, ap.FinalizedAt)
	assert.True(t, ap.FinalizedAt.Equal(now))

	assert.ErrorIs(t, Cancel(ap, now), ErrInvalidState)
	assert.Nil(t, ap.CancelledAt)
}

func TestBlockingAndParse(t *testing.T) {
	assert.True(t, Blocking(StatusPending))
	assert.True(t, Blocking(StatusConfirmed))
	assert.False(t, Blocking(StatusCancelled))
	assert.False(t, Blocking(StatusFinalized))

	_, err := ParseStatus("scheduled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	st, err := ParseStatus("finalized")
	require.NoError(t, err)
	assert.Equal(t, StatusFinalized, st)
}
