package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/turnos/internal/audit"
	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/models"
	"github.com/BruksfildServices01/turnos/internal/timezone"
)

type UpdateAppointmentStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   clock
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	businessID uint,
	userID uint,
	appointmentID uint,
	status string,
) (*models.Appointment, error) {

	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	shop, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, businessID, appointmentID)
	if err != nil {
		return nil, err
	}

	from := ap.Status
	now := uc.now().In(timezone.Location(shop.Timezone))
	if err := domain.Transition(ap, to, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     &userID,
		Action:     "appointment_" + string(to),
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata:   map[string]string{"from": from, "to": string(to)},
	})

	return ap, nil
}
