package appointment

import (
	"context"

	"github.com/BruksfildServices01/turnos/internal/audit"
	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes exactly one appointment of the business.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	appointmentID uint,
) error {

	if err := uc.repo.DeleteAppointment(ctx, businessID, appointmentID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "appointment_deleted",
		Entity:     "appointment",
		EntityID:   &appointmentID,
	})
	return nil
}
