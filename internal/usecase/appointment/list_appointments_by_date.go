package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/dto"
	"github.com/BruksfildServices01/turnos/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists the appointments of one local day. staffID 0 means all
// staff members.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	businessID uint,
	staffID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	shop, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	start, err := timezone.ParseDate(shop.Timezone, date)
	if err != nil {
		return nil, ErrInvalidDateTime
	}
	end := start.AddDate(0, 0, 1)

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

// monthBounds is [first day, first day of next month) in loc.
func monthBounds(year, month int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
