package model

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (24h).
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ClockOf returns the wall clock of t in its own location.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute()}
}

// Add returns the clock advanced by m minutes, wrapping around midnight.
func (c Clock) Add(m int) Clock {
	total := ((c.Hour*60+c.Minute+m)%(24*60) + 24*60) % (24 * 60)
	return Clock{Hour: total / 60, Minute: total % 60}
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Bedtime is the nightly sleep window. It always repeats daily.
type Bedtime struct {
	Start Clock   `yaml:"start" json:"start"`
	Hours float64 `yaml:"hours" json:"hours"`
}

func DefaultBedtime() Bedtime {
	return Bedtime{Start: Clock{Hour: 20}, Hours: 10}
}

// Minutes returns the sleep length truncated to whole minutes.
func (b Bedtime) Minutes() int {
	return int(b.Hours * 60)
}

// End returns the wake-up time of day.
func (b Bedtime) End() Clock {
	return b.Start.Add(b.Minutes())
}
