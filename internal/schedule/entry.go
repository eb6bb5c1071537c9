package schedule

import (
	"fmt"
	"slices"
	"time"

	"sparrow/internal/span"
)

// EntryKind tags a schedule entry.
type EntryKind string

const (
	EntryJob      EntryKind = "job"
	EntryCalendar EntryKind = "calendar"
	EntryBreak    EntryKind = "break"
	EntrySleep    EntryKind = "sleep"
)

// Entry is one block of a Pomodoro schedule. Title is set for jobs and
// calendar occurrences only. Entries are values and are never modified after
// the engine produces them.
type Entry struct {
	Kind  EntryKind     `yaml:"kind" json:"kind"`
	Title string        `yaml:"title,omitempty" json:"title,omitempty"`
	Span  span.TimeSpan `yaml:"span" json:"span"`
}

func Job(title string, s span.TimeSpan) Entry {
	return Entry{Kind: EntryJob, Title: title, Span: s}
}

func Calendar(name string, s span.TimeSpan) Entry {
	return Entry{Kind: EntryCalendar, Title: name, Span: s}
}

func Break(s span.TimeSpan) Entry {
	return Entry{Kind: EntryBreak, Span: s}
}

func Sleep(s span.TimeSpan) Entry {
	return Entry{Kind: EntrySleep, Span: s}
}

// DisplayTitle is the label shown to the user.
func (e Entry) DisplayTitle() string {
	switch e.Kind {
	case EntryBreak:
		return "Break"
	case EntrySleep:
		return "Sleep"
	default:
		return e.Title
	}
}

func (e Entry) Start() time.Time { return e.Span.Start }
func (e Entry) End() time.Time   { return e.Span.End() }

func (e Entry) String() string {
	return fmt.Sprintf("%s %s", e.Span, e.DisplayTitle())
}

// sortEntries orders entries ascending by start, keeping the relative order
// of entries that start together.
func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Span.Start.Compare(b.Span.Start)
	})
}

// CurrentAndNext returns the first entry that has not ended by now and the
// one after it. Either may be nil.
func CurrentAndNext(entries []Entry, now time.Time) (current, next *Entry) {
	i := 0
	for i < len(entries) && !entries[i].End().After(now) {
		i++
	}
	if i < len(entries) {
		c := entries[i]
		current = &c
	}
	if i+1 < len(entries) {
		n := entries[i+1]
		next = &n
	}
	return current, next
}

// Upcoming returns the entries whose end is after now.
func Upcoming(entries []Entry, now time.Time) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.End().After(now) {
			out = append(out, e)
		}
	}
	return out
}

// Unscheduled reports work that did not fit before its due date.
type Unscheduled struct {
	Name    string `yaml:"name" json:"name"`
	Minutes int    `yaml:"minutes" json:"minutes"`
}

func (u Unscheduled) String() string {
	return fmt.Sprintf("%s, %d minutes unscheduled", u.Name, u.Minutes)
}
