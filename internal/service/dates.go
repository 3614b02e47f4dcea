package service

import (
	"time"
)

// DateLayout is the dd/mm/yyyy format used at the boundary.
const DateLayout = "02/01/2006"

// parseLayout also accepts unpadded days and months.
const parseLayout = "2/1/2006"

// ParseDate reads a dd/mm/yyyy string into midnight UTC of that calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(parseLayout, s)
}

func FormatDate(t time.Time) string {
	return calendarDate(t).Format(DateLayout)
}

// calendarDate normalizes a stored date to midnight UTC. Stored dates are
// written as midnight UTC, so the UTC components are the calendar day
// whatever location the driver hands them back in.
func calendarDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// localDay is the calendar day of now in its own location, as midnight UTC.
func localDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// midnightIn is the start of date's calendar day in loc.
func midnightIn(date time.Time, loc *time.Location) time.Time {
	d := calendarDate(date)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
