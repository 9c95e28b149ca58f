package appointment

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/domain/availability"
	"github.com/BruksfildServices01/turnos/internal/metrics"
	"github.com/BruksfildServices01/turnos/internal/timezone"
)

type AvailabilityInput struct {
	BusinessID uint
	StaffID    uint
	// ServiceID 0 sizes each slot to the business step.
	ServiceID uint
	Date      string
	Match     availability.Match
}

type GetAvailability struct {
	repo    domain.Repository
	metrics *metrics.Metrics
	now     clock
}

func NewGetAvailability(repo domain.Repository, metrics *metrics.Metrics) *GetAvailability {
	return &GetAvailability{repo: repo, metrics: metrics, now: time.Now}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]availability.Slot, error) {

	began := time.Now()
	ctx, span := tracer.Start(ctx, "availability.day")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("business.id", int64(in.BusinessID)),
		attribute.Int64("staff.id", int64(in.StaffID)),
		attribute.String("date", in.Date),
	)

	shop, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(shop.Timezone, in.Date)
	if err != nil {
		return nil, ErrInvalidDateTime
	}

	staff, err := uc.repo.GetStaff(ctx, in.BusinessID, in.StaffID)
	if err != nil {
		return nil, notFoundAs(err, ErrStaffNotFound)
	}
	if !staff.Active {
		return nil, ErrStaffNotFound
	}

	var duration time.Duration
	if in.ServiceID != 0 {
		svc, err := uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
		if err != nil {
			return nil, notFoundAs(err, ErrServiceNotFound)
		}
		if !svc.Active {
			return nil, ErrServiceNotFound
		}
		duration = time.Duration(svc.DurationMin) * time.Minute
	}

	hours, err := uc.repo.ListWorkingHours(ctx, staff.ID)
	if err != nil {
		return nil, err
	}

	apps, err := listBlocking(ctx, uc.repo, in.BusinessID, staff.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	grid := dayGrid{
		business:   shop,
		hours:      hours,
		duration:   duration,
		now:        uc.now().In(day.Location()),
		match:      in.Match,
		minAdvance: minAdvanceOf(shop),
	}
	slots := grid.slots(day, occupiedOf(apps))

	kind := "owner"
	if in.Match == availability.MatchOverlap {
		kind = "public"
	}
	uc.metrics.ObserveAvailability(kind, time.Since(began))
	return slots, nil
}
