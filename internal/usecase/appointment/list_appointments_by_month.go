package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/dto"
	"github.com/BruksfildServices01/turnos/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	businessID uint,
	staffID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 2000 {
		return nil, ErrInvalidDateTime
	}

	shop, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	start, end := monthBounds(year, month, timezone.Location(shop.Timezone))

	appointments, err := uc.repo.ListAppointments(ctx, domain.ListFilter{
		BusinessID: businessID,
		StaffID:    staffID,
		From:       start,
		To:         end,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentList(appointments), nil
}
