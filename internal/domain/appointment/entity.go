package appointment

import (
	"time"

	"github.com/BruksfildServices01/turnos/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to the target status and stamps the matching
// timestamp.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusFinalized:
		ap.FinalizedAt = &now
	}
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCancelled, now)
}

func Finalize(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusFinalized, now)
}

func Confirm(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusConfirmed, now)
}
