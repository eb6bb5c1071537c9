package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparrow/internal/model"
	"sparrow/internal/span"
)

func TestFreeSpansNestedEntries(t *testing.T) {
	fixed := []Entry{
		Calendar("block", span.Between(monday(9, 0), monday(12, 0))),
		Calendar("nested", span.Between(monday(10, 0), monday(10, 30))),
		Calendar("lunch", span.Between(monday(13, 0), monday(14, 0))),
	}

	got := freeSpans(fixed, monday(8, 0), monday(16, 0))
	assert.Equal(t, []span.TimeSpan{
		span.Between(monday(8, 0), monday(9, 0)),
		span.Between(monday(12, 0), monday(13, 0)),
		span.Between(monday(14, 0), monday(16, 0)),
	}, got)
}

func TestFreeSpansClipsToWindow(t *testing.T) {
	fixed := []Entry{
		Calendar("past", span.Between(monday(6, 0), monday(7, 0))),
		Calendar("running", span.Between(monday(7, 30), monday(9, 0))),
		Calendar("touching", span.Between(monday(9, 0), monday(9, 30))),
		Calendar("after", span.Between(monday(17, 0), monday(18, 0))),
	}

	got := freeSpans(fixed, monday(8, 0), monday(16, 0))
	assert.Equal(t, []span.TimeSpan{span.Between(monday(9, 30), monday(16, 0))}, got)
}

func TestFreeSpansNothingFixed(t *testing.T) {
	got := freeSpans(nil, monday(8, 0), monday(10, 0))
	assert.Equal(t, []span.TimeSpan{span.Between(monday(8, 0), monday(10, 0))}, got)

	assert.Empty(t, freeSpans(nil, monday(10, 0), monday(10, 0)))
}

func TestFixedEntriesSleepAnchoredOnPreviousDay(t *testing.T) {
	bed := model.Bedtime{Start: model.Clock{Hour: 22}, Hours: 8}
	entries, err := FixedEntries(nil, bed, monday(2, 0), day(2, 0, 0), time.UTC)
	require.NoError(t, err)

	sleeps := entriesOfKind(entries, EntrySleep)
	require.Len(t, sleeps, 3)
	assert.Equal(t, span.New(day(-1, 22, 0), 480), sleeps[0].Span)
	assert.Equal(t, span.New(monday(22, 0), 480), sleeps[1].Span)
	assert.Equal(t, span.New(day(1, 22, 0), 480), sleeps[2].Span)
}

func TestFixedEntriesEvents(t *testing.T) {
	standup := event("standup", monday(9, 0), 15)
	standup.Repeat = model.RepeatDaily()
	lunch := event("", monday(12, 0), 45)
	lunch.Kind = model.KindBreak

	entries, err := FixedEntries(
		[]model.CalendarEvent{lunch, standup},
		model.Bedtime{},
		monday(8, 0), day(2, 0, 0), time.UTC,
	)
	require.NoError(t, err)
	assertSorted(t, entries)

	assert.Empty(t, entriesOfKind(entries, EntrySleep), "zero-length bedtime adds no sleep")
	assert.Equal(t, []string{"standup", "standup"}, titles(entriesOfKind(entries, EntryCalendar)))

	breaks := entriesOfKind(entries, EntryBreak)
	require.Len(t, breaks, 1)
	assert.Equal(t, "Break", breaks[0].DisplayTitle())
	assert.Equal(t, span.New(monday(12, 0), 45), breaks[0].Span)
}

func TestFixedEntriesRejectsSkippedBedtime(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2026, 3, 9, 12, 0, 0, 0, ny)
	bed := model.Bedtime{Start: model.Clock{Hour: 2, Minute: 30}, Hours: 6}
	_, err = FixedEntries(nil, bed, now, now.AddDate(0, 0, 2), ny)
	assert.ErrorIs(t, err, ErrInvalidTimezoneConversion)
}

func TestFixedEntriesRejectsBedtimeInLaterGap(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:30 does not exist on 2026-03-08; yesterday is an ordinary day.
	now := time.Date(2026, 3, 3, 12, 0, 0, 0, ny)
	bed := model.Bedtime{Start: model.Clock{Hour: 2, Minute: 30}, Hours: 6}

	_, err = FixedEntries(nil, bed, now, time.Date(2026, 3, 12, 0, 0, 0, 0, ny), ny)
	var lte *LocalTimeError
	require.ErrorAs(t, err, &lte)
	assert.Equal(t, 8, lte.Day)
	assert.False(t, lte.Ambiguous)

	// A horizon before the transition never reaches that night.
	entries, err := FixedEntries(nil, bed, now, time.Date(2026, 3, 7, 0, 0, 0, 0, ny), ny)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
