package schedule

import (
	"errors"
	"time"

	appLog "sparrow/internal/log"
	"sparrow/internal/model"
	"sparrow/internal/recur"
	"sparrow/internal/span"
)

// FixedEntries expands every calendar event and the nightly sleep window up
// to horizon and returns them ascending by start. This is the immovable
// backbone jobs are packed around.
//
// The sleep window is anchored on the day before now so a window that is in
// progress (say, at 2am) is still represented.
func FixedEntries(events []model.CalendarEvent, bedtime model.Bedtime, now, horizon time.Time, loc *time.Location) ([]Entry, error) {
	var entries []Entry

	for _, ev := range events {
		res := recur.Expand(ev.Span, ev.Repeat, horizon)
		if res.Truncated {
			appLog.Error("schedule: truncated occurrences for event due to cap",
				errors.New("max occurrences reached"),
				"event", ev.Name,
				"occurrences", len(res.Spans),
			)
		}
		for _, s := range res.Spans {
			entries = append(entries, eventEntry(ev, s))
		}
	}

	sleep, err := sleepEntries(bedtime, now, horizon, loc)
	if err != nil {
		return nil, err
	}
	entries = append(entries, sleep...)

	sortEntries(entries)
	return entries, nil
}

func eventEntry(ev model.CalendarEvent, s span.TimeSpan) Entry {
	if ev.Kind == model.KindBreak {
		return Break(s)
	}
	return Calendar(ev.Name, s)
}

func sleepEntries(bedtime model.Bedtime, now, horizon time.Time, loc *time.Location) ([]Entry, error) {
	if bedtime.Minutes() <= 0 {
		return nil, nil
	}
	yesterday := now.In(loc).AddDate(0, 0, -1)
	start, err := LocalOn(yesterday, bedtime.Start, loc)
	if err != nil {
		return nil, err
	}

	res := recur.Expand(span.New(start, bedtime.Minutes()), model.RepeatDaily(), horizon)
	out := make([]Entry, 0, len(res.Spans))
	for _, s := range res.Spans {
		// Every night must resolve, not only the first: a bedtime inside a
		// zone transition is an error on the day it happens.
		night, err := LocalOn(s.Start, bedtime.Start, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, Sleep(span.New(night, s.Minutes)))
	}
	return out, nil
}

// freeSpans returns the maximal free intervals in [now, horizon) that no
// fixed entry covers. fixed must be sorted by start; entries may overlap each
// other.
func freeSpans(fixed []Entry, now, horizon time.Time) []span.TimeSpan {
	var out []span.TimeSpan
	cursor := span.New(now, 0)

	for _, e := range fixed {
		if !e.End().After(now) {
			continue
		}
		if !e.Start().Before(horizon) {
			break
		}
		if gap, ok := span.Gap(cursor, e.Span); ok && e.Start().After(cursor.Start) {
			out = append(out, gap)
		}
		// Entries nested inside an earlier one must not pull the cursor back.
		if e.End().After(cursor.Start) {
			cursor = span.New(e.End(), 0)
		}
	}

	if horizon.After(cursor.Start) {
		out = append(out, span.Between(cursor.Start, horizon))
	}
	return out
}
