package availability

import (
	"sort"
	"time"
)

const DefaultStep = 30 * time.Minute

type Match int

const (
	// MatchExact blocks a slot only when a booking starts at that same
	// local day and hour:minute.
	MatchExact Match = iota
	// MatchOverlap blocks a slot when [start, start+duration) intersects a
	// booking, and when the span would run past the closing time.
	MatchOverlap
)

type Reason string

const (
	ReasonPast    Reason = "past"
	ReasonTooSoon Reason = "too_soon"
	ReasonBooked  Reason = "booked"
	ReasonBreak   Reason = "break"
	ReasonClosing Reason = "closing"
)

type Slot struct {
	Time      string    `json:"time"`
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
	Reason    Reason    `json:"reason,omitempty"`
}

// Occupied is a booked span. A zero or non-positive span is a point.
type Occupied struct {
	Start time.Time
	End   time.Time
}

// Shift narrows the business window for one staff member on one weekday.
// Offsets are measured from local midnight.
type Shift struct {
	Start      time.Duration
	End        time.Duration
	BreakStart time.Duration
	BreakEnd   time.Duration
}

func (s Shift) hasBreak() bool {
	return s.BreakEnd > s.BreakStart
}

type Input struct {
	Day         time.Time
	OpeningHour int
	ClosingHour int
	Step        time.Duration
	Duration    time.Duration
	Occupied    []Occupied
	Now         time.Time
	Match       Match
	Shift       *Shift

	// Earliest, when set, is the first bookable instant; slots between
	// Now and Earliest are tagged too_soon.
	Earliest time.Time
}

// Generate lists every step boundary in [opening, closing) for Day, in
// Day's location, tagging each one available or not. It never fails:
// inconsistent input yields an empty list.
func Generate(in Input) []Slot {
	slots := []Slot{}

	step := in.Step
	if step <= 0 {
		step = DefaultStep
	}
	if in.OpeningHour < 0 || in.ClosingHour > 24 || in.ClosingHour <= in.OpeningHour {
		return slots
	}

	open := time.Duration(in.OpeningHour) * time.Hour
	closing := time.Duration(in.ClosingHour) * time.Hour

	windowStart, windowEnd := open, closing
	if in.Shift != nil {
		if in.Shift.Start > windowStart {
			windowStart = in.Shift.Start
		}
		if in.Shift.End < windowEnd {
			windowEnd = in.Shift.End
		}
	}

	span := in.Duration
	if span <= 0 {
		span = step
	}

	exact := newMinuteSet(in.Occupied)
	busy := sortedSpans(in.Occupied)

	y, m, d := in.Day.Date()
	loc := in.Day.Location()

	for off := open; off < closing; off += step {
		if off < windowStart || off >= windowEnd {
			continue
		}

		start := time.Date(y, m, d, 0, int(off/time.Minute), 0, 0, loc)
		slot := Slot{
			Time:      start.Format("15:04"),
			Start:     start,
			Available: true,
		}

		switch {
		case start.Before(in.Now):
			slot.Reason = ReasonPast
		case start.Before(in.Earliest):
			slot.Reason = ReasonTooSoon
		case in.Shift != nil && in.Shift.hasBreak() && blockedByBreak(in.Match, *in.Shift, off, span):
			slot.Reason = ReasonBreak
		case in.Match == MatchOverlap && off+span > windowEnd:
			slot.Reason = ReasonClosing
		case in.Match == MatchOverlap && overlapsAny(start, start.Add(span), busy):
			slot.Reason = ReasonBooked
		case in.Match == MatchExact && exact.has(start):
			slot.Reason = ReasonBooked
		}

		if slot.Reason != "" {
			slot.Available = false
		}
		slots = append(slots, slot)
	}

	return slots
}

// Lookup returns the slot starting at t, if t is a generated boundary.
func Lookup(slots []Slot, t time.Time) (Slot, bool) {
	key := MinuteKey(t)
	for _, s := range slots {
		if MinuteKey(s.Start) == key {
			return s, true
		}
	}
	return Slot{}, false
}

// Available filters slots down to the bookable ones.
func Available(slots []Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}

func blockedByBreak(match Match, sh Shift, off, span time.Duration) bool {
	if match == MatchOverlap {
		return off < sh.BreakEnd && off+span > sh.BreakStart
	}
	return off >= sh.BreakStart && off < sh.BreakEnd
}

func sortedSpans(occ []Occupied) []Occupied {
	out := make([]Occupied, len(occ))
	copy(out, occ)
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// half-open [start,end) against each busy span; points block when inside.
func overlapsAny(start, end time.Time, busy []Occupied) bool {
	for _, b := range busy {
		if !b.Start.Before(end) {
			return false
		}
		if !b.End.After(b.Start) {
			if !b.Start.Before(start) {
				return true
			}
			continue
		}
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
