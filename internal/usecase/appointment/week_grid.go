package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/domain/availability"
	"github.com/BruksfildServices01/turnos/internal/metrics"
	"github.com/BruksfildServices01/turnos/internal/timezone"
)

const weekDays = 7

type DaySlots struct {
	Date    string              `json:"date"`
	Weekday int                 `json:"weekday"`
	Slots   []availability.Slot `json:"slots"`
}

// GetWeekGrid builds the owner's seven-day agenda for one staff member with
// a single appointment query.
type GetWeekGrid struct {
	repo    domain.Repository
	metrics *metrics.Metrics
	now     clock
}

func NewGetWeekGrid(repo domain.Repository, metrics *metrics.Metrics) *GetWeekGrid {
	return &GetWeekGrid{repo: repo, metrics: metrics, now: time.Now}
}

func (uc *GetWeekGrid) Execute(
	ctx context.Context,
	businessID uint,
	staffID uint,
	startDate string,
) ([]DaySlots, error) {

	began := time.Now()
	ctx, span := tracer.Start(ctx, "availability.week")
	defer span.End()

	shop, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(shop.Timezone)

	first := timezone.StartOfDay(uc.now().In(loc))
	if startDate != "" {
		if first, err = timezone.ParseDate(shop.Timezone, startDate); err != nil {
			return nil, ErrInvalidDateTime
		}
	}
	last := first.AddDate(0, 0, weekDays)

	staff, err := uc.repo.GetStaff(ctx, businessID, staffID)
	if err != nil {
		return nil, notFoundAs(err, ErrStaffNotFound)
	}

	hours, err := uc.repo.ListWorkingHours(ctx, staff.ID)
	if err != nil {
		return nil, err
	}

	apps, err := listBlocking(ctx, uc.repo, businessID, staff.ID, first, last)
	if err != nil {
		return nil, err
	}

	idx := availability.NewIndex(loc)
	for _, o := range occupiedOf(apps) {
		idx.Add(staff.ID, o)
	}

	grid := dayGrid{
		business: shop,
		hours:    hours,
		now:      uc.now().In(loc),
		match:    availability.MatchExact,
	}

	out := make([]DaySlots, 0, weekDays)
	for i := 0; i < weekDays; i++ {
		day := first.AddDate(0, 0, i)
		out = append(out, DaySlots{
			Date:    day.Format("2006-01-02"),
			Weekday: int(day.Weekday()),
			Slots:   grid.slots(day, idx.Day(staff.ID, day)),
		})
	}

	uc.metrics.ObserveAvailability("week", time.Since(began))
	return out, nil
}
