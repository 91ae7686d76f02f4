package calendar

import (
	"fmt"
	"time"
)

// CivilDate identifies a calendar day as a plain (year, month, day)
// triple. It carries no time zone and no time of day, so two CivilDates
// are equal exactly when they name the same day on the wall calendar.
//
// All weekday math in this codebase goes through CivilDate.Weekday so
// meeting-day classification cannot drift with the runtime's local zone.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the civil date from a time.Time using the time's own
// location. Callers that want "today" should pass time.Now().
func DateOf(t time.Time) CivilDate {
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseCivilDate parses an ISO "2006-01-02" date string.
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// ISO returns the date in "2006-01-02" form. This is the canonical key
// format for schedules and assignment history.
func (d CivilDate) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns the date at midnight UTC. UTC is an arbitrary but fixed
// anchor; it is only used to reach the standard library's calendar
// arithmetic, never exposed as an instant.
func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week for this civil date.
func (d CivilDate) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// AddDays returns the civil date n days after d (n may be negative).
func (d CivilDate) AddDays(n int) CivilDate {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is chronologically before other.
func (d CivilDate) Before(other CivilDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// WeekKey returns the representative date of the week containing d:
// the Sunday on or before d. Weekly cleaning responsibilities are
// bucketed under this key.
func (d CivilDate) WeekKey() CivilDate {
	return d.AddDays(-int(d.Weekday()))
}

// MonthKey returns the "YYYY-MM" key for the month/year pair. This is
// the key format used by every persisted per-month collection.
func MonthKey(month time.Month, year int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
