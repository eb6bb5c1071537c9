package schedule

import (
	"testing"
	"time"
	_ "time/tzdata"

	"sparrow/internal/config"
	"sparrow/internal/model"
	"sparrow/internal/span"
)

// monday is 2026-03-02, a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func day(offset, hour, minute int) time.Time {
	return monday(hour, minute).AddDate(0, 0, offset)
}

func testInputs(now time.Time, tasks ...model.Task) Inputs {
	cfg := config.DefaultConfig()
	return Inputs{
		Config:   *cfg,
		Tasks:    tasks,
		Bedtime:  model.Bedtime{Start: model.Clock{Hour: 22}, Hours: 8},
		Now:      now,
		Location: time.UTC,
	}
}

func task(name string, due time.Time, minutes int) model.Task {
	return model.Task{
		Name:                    name,
		DueDate:                 due,
		Duration:                model.Minutes(minutes),
		ConsiderationPeriodDays: model.DefaultConsiderationDays,
	}
}

func event(name string, start time.Time, minutes int) model.CalendarEvent {
	return model.CalendarEvent{Name: name, Span: span.New(start, minutes), Kind: model.KindEvent, Repeat: model.NoRepeat()}
}

func entriesOfKind(entries []Entry, kind EntryKind) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func titles(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Title)
	}
	return out
}

func assertSorted(t *testing.T, entries []Entry) {
	t.Helper()
	for i := 1; i < len(entries); i++ {
		if entries[i].Start().Before(entries[i-1].Start()) {
			t.Fatalf("entries out of order at %d: %s before %s", i, entries[i], entries[i-1])
		}
	}
}
