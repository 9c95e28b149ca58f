package availability

import "time"

// MinuteKey is the instant truncated to whole minutes since the Unix epoch.
// Two timestamps that render as the same local day and hour:minute in any
// single location share a key.
func MinuteKey(t time.Time) int64 {
	return t.Truncate(time.Minute).Unix() / 60
}

type minuteSet map[int64]struct{}

func newMinuteSet(occ []Occupied) minuteSet {
	set := make(minuteSet, len(occ))
	for _, o := range occ {
		set[MinuteKey(o.Start)] = struct{}{}
	}
	return set
}

func (s minuteSet) has(t time.Time) bool {
	_, ok := s[MinuteKey(t)]
	return ok
}

type dayKey struct {
	staffID uint
	day     string
}

// Index groups bookings by (staff, local day) so a multi-day or multi-staff
// grid slices them without rescanning the full list per cell.
type Index struct {
	loc     *time.Location
	entries map[dayKey][]Occupied
}

func NewIndex(loc *time.Location) *Index {
	if loc == nil {
		loc = time.UTC
	}
	return &Index{
		loc:     loc,
		entries: make(map[dayKey][]Occupied),
	}
}

func (x *Index) Add(staffID uint, o Occupied) {
	k := dayKey{staffID: staffID, day: o.Start.In(x.loc).Format("2006-01-02")}
	x.entries[k] = append(x.entries[k], o)
}

// Day returns the bookings of staffID that start on day's local date.
func (x *Index) Day(staffID uint, day time.Time) []Occupied {
	return x.entries[dayKey{staffID: staffID, day: day.In(x.loc).Format("2006-01-02")}]
}
