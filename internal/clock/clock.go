// Package clock supplies "today" as a calendar date.
//
// Dates are carried as time.Time values at midnight UTC so that two dates
// compare equal exactly when they name the same calendar day.
package clock

import "time"

type Clock interface {
	Today() time.Time
}

// Day drops the time of day from t, keeping the calendar date t has in its
// own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// System reads the wall clock in Location (UTC when nil).
type System struct {
	Location *time.Location
}

func (s System) Today() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return Day(time.Now().In(loc))
}

type Fixed time.Time

func (f Fixed) Today() time.Time {
	return Day(time.Time(f))
}
