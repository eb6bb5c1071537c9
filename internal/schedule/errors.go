package schedule

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"sparrow/internal/model"
)

var (
	// ErrNoTasks is returned when there is nothing to schedule: without
	// tasks there is no horizon to plan up to.
	ErrNoTasks = errors.New("can't make a schedule without tasks")

	// ErrInvalidTimezoneConversion is returned when a local date and time of
	// day has no instant, or more than one, in the target timezone.
	ErrInvalidTimezoneConversion = errors.New("local time can't be converted to the timezone")
)

// LocalTimeError describes a date/clock pair that could not be resolved.
type LocalTimeError struct {
	Year     int
	Month    time.Month
	Day      int
	Clock    model.Clock
	Location string
	// Ambiguous is true when the wall clock occurs twice (clocks turned
	// back) and false when it does not occur at all (clocks skipped ahead).
	Ambiguous bool
}

func (e *LocalTimeError) Error() string {
	reason := "does not exist"
	if e.Ambiguous {
		reason = "is ambiguous"
	}
	return fmt.Sprintf("%04d-%02d-%02d %s %s in %s", e.Year, e.Month, e.Day, e.Clock, reason, e.Location)
}

func (e *LocalTimeError) Unwrap() error {
	return ErrInvalidTimezoneConversion
}

// LocalAt composes a calendar date and a time of day into an instant in
// loc. Wall clocks skipped or repeated by a zone transition are reported as
// a *LocalTimeError instead of being silently normalized.
func LocalAt(year int, month time.Month, day int, clock model.Clock, loc *time.Location) (time.Time, error) {
	// Normalize the civil date first so callers may pass day overflow.
	civil := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	year, month, day = civil.Date()

	wall := time.Date(year, month, day, clock.Hour, clock.Minute, 0, 0, time.UTC)

	var found []time.Time
	for _, probe := range []time.Time{wall.Add(-24 * time.Hour), wall, wall.Add(24 * time.Hour)} {
		_, offset := probe.In(loc).Zone()
		candidate := wall.Add(-time.Duration(offset) * time.Second).In(loc)
		if !sameWallClock(candidate, year, month, day, clock) {
			continue
		}
		if !slices.ContainsFunc(found, candidate.Equal) {
			found = append(found, candidate)
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return time.Time{}, &LocalTimeError{Year: year, Month: month, Day: day, Clock: clock, Location: loc.String()}
	default:
		return time.Time{}, &LocalTimeError{Year: year, Month: month, Day: day, Clock: clock, Location: loc.String(), Ambiguous: true}
	}
}

// LocalOn is LocalAt for the calendar date of t in loc.
func LocalOn(t time.Time, clock model.Clock, loc *time.Location) (time.Time, error) {
	y, m, d := t.In(loc).Date()
	return LocalAt(y, m, d, clock, loc)
}

func sameWallClock(t time.Time, year int, month time.Month, day int, clock model.Clock) bool {
	y, m, d := t.Date()
	return y == year && m == month && d == day && t.Hour() == clock.Hour && t.Minute() == clock.Minute
}
