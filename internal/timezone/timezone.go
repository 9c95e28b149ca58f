package timezone

import (
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "America/Argentina/Buenos_Aires"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate parses YYYY-MM-DD at midnight in tz.
func ParseDate(tz, date string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, Location(tz))
}

// ParseDateTime parses YYYY-MM-DD + HH:MM in tz.
func ParseDateTime(tz, date, hm string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+hm, Location(tz))
}

// StartOfDay truncates t to local midnight keeping its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
