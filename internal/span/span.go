// Package span implements the time-span value type and its interval algebra.
package span

import (
	"fmt"
	"time"
)

// TimeSpan is a block of time starting at Start and lasting Minutes minutes.
// A zero-length span is valid and means "no time left".
type TimeSpan struct {
	Start   time.Time `yaml:"start" json:"start"`
	Minutes int       `yaml:"minutes" json:"minutes"`
}

// New returns a span, clamping negative lengths to zero.
func New(start time.Time, minutes int) TimeSpan {
	if minutes < 0 {
		minutes = 0
	}
	return TimeSpan{Start: start, Minutes: minutes}
}

// Between returns the span from start to end, truncated to whole minutes.
// An end before start yields a zero-length span at start.
func Between(start, end time.Time) TimeSpan {
	return New(start, int(end.Sub(start)/time.Minute))
}

func (s TimeSpan) End() time.Time {
	return s.Start.Add(s.Duration())
}

func (s TimeSpan) Duration() time.Duration {
	return time.Duration(s.Minutes) * time.Minute
}

func (s TimeSpan) IsZero() bool {
	return s.Minutes == 0
}

// Overlaps reports whether the spans share any instant. Spans that only
// touch end-to-start do not overlap.
func (s TimeSpan) Overlaps(o TimeSpan) bool {
	return s.Start.Before(o.End()) && o.Start.Before(s.End())
}

// Touches reports whether the spans overlap or one ends exactly where the
// other starts.
func (s TimeSpan) Touches(o TimeSpan) bool {
	return s.Overlaps(o) || s.End().Equal(o.Start) || o.End().Equal(s.Start)
}

// Contains reports whether t falls inside [Start, End).
func (s TimeSpan) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End())
}

// Gap returns the free time strictly between a and b, in either order.
// ok is false when the spans touch or overlap.
func Gap(a, b TimeSpan) (gap TimeSpan, ok bool) {
	if a.Touches(b) {
		return TimeSpan{}, false
	}
	earlier, later := a, b
	if later.Start.Before(earlier.Start) {
		earlier, later = later, earlier
	}
	return Between(earlier.End(), later.Start), true
}

// ShrinkFromStart consumes up to minutes from the front of the span. The end
// stays put; the length never goes negative.
func (s TimeSpan) ShrinkFromStart(minutes int) TimeSpan {
	if minutes < 0 {
		minutes = 0
	}
	consumed := min(minutes, s.Minutes)
	return TimeSpan{
		Start:   s.Start.Add(time.Duration(consumed) * time.Minute),
		Minutes: s.Minutes - consumed,
	}
}

func (s TimeSpan) String() string {
	return fmt.Sprintf("%s+%dm", s.Start.Format(time.RFC3339), s.Minutes)
}
