package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/turnos/internal/domain/appointment"
	"github.com/BruksfildServices01/turnos/internal/domain/availability"
	"github.com/BruksfildServices01/turnos/internal/models"
)

// clock is swapped in tests.
type clock func() time.Time

func parseHM(hm string) (time.Duration, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

// shiftFor returns the staff shift for weekday. Staff without any configured
// rows follow the business hours (nil shift, works). Once rows exist, a
// weekday without an active row is a day off.
func shiftFor(rows []models.WorkingHours, weekday time.Weekday) (*availability.Shift, bool) {
	if len(rows) == 0 {
		return nil, true
	}
	for _, wh := range rows {
		if wh.Weekday != int(weekday) {
			continue
		}
		if !wh.Active {
			return nil, false
		}
		start, ok1 := parseHM(wh.StartTime)
		end, ok2 := parseHM(wh.EndTime)
		if !ok1 || !ok2 || end <= start {
			return nil, false
		}
		sh := &availability.Shift{Start: start, End: end}
		if ls, ok := parseHM(wh.LunchStart); ok {
			if le, ok := parseHM(wh.LunchEnd); ok && le > ls {
				sh.BreakStart, sh.BreakEnd = ls, le
			}
		}
		return sh, true
	}
	return nil, false
}

func minAdvanceOf(b *models.Business) time.Duration {
	if b.MinAdvanceMinutes > 0 {
		return time.Duration(b.MinAdvanceMinutes) * time.Minute
	}
	return 0
}

func stepOf(b *models.Business) time.Duration {
	if b.SlotStepMinutes > 0 {
		return time.Duration(b.SlotStepMinutes) * time.Minute
	}
	return availability.DefaultStep
}

type dayGrid struct {
	business *models.Business
	hours    []models.WorkingHours
	duration time.Duration
	now      time.Time
	match    availability.Match

	// minAdvance is applied to public (overlap) grids only.
	minAdvance time.Duration
}

func (g dayGrid) slots(day time.Time, occupied []availability.Occupied) []availability.Slot {
	shift, works := shiftFor(g.hours, day.Weekday())
	if !works {
		return []availability.Slot{}
	}
	var earliest time.Time
	if g.match == availability.MatchOverlap && g.minAdvance > 0 {
		earliest = g.now.Add(g.minAdvance)
	}
	return availability.Generate(availability.Input{
		Day:         day,
		OpeningHour: g.business.OpeningHour,
		ClosingHour: g.business.ClosingHour,
		Step:        stepOf(g.business),
		Duration:    g.duration,
		Occupied:    occupied,
		Now:         g.now,
		Earliest:    earliest,
		Match:       g.match,
		Shift:       shift,
	})
}

func occupiedOf(apps []models.Appointment) []availability.Occupied {
	out := make([]availability.Occupied, 0, len(apps))
	for _, ap := range apps {
		out = append(out, availability.Occupied{Start: ap.StartTime, End: ap.EndTime})
	}
	return out
}

func listBlocking(ctx context.Context, repo domain.Repository, businessID, staffID uint, from, to time.Time) ([]models.Appointment, error) {
	return repo.ListAppointments(ctx, domain.ListFilter{
		BusinessID: businessID,
		StaffID:    staffID,
		From:       from,
		To:         to,
		Statuses:   domain.BlockingStatuses(),
	})
}
