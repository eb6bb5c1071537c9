package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparrow/internal/span"
)

func sampleEntries() []Entry {
	return []Entry{
		Job("a", span.New(monday(9, 0), 25)),
		Break(span.New(monday(9, 25), 5)),
		Calendar("meeting", span.New(monday(10, 0), 60)),
	}
}

func TestCurrentAndNext(t *testing.T) {
	entries := sampleEntries()

	cur, next := CurrentAndNext(entries, monday(9, 10))
	require.NotNil(t, cur)
	require.NotNil(t, next)
	assert.Equal(t, "a", cur.Title)
	assert.Equal(t, EntryBreak, next.Kind)

	// Between entries the upcoming one is current.
	cur, next = CurrentAndNext(entries, monday(9, 40))
	require.NotNil(t, cur)
	assert.Equal(t, "meeting", cur.Title)
	assert.Nil(t, next)

	cur, next = CurrentAndNext(entries, monday(12, 0))
	assert.Nil(t, cur)
	assert.Nil(t, next)
}

func TestUpcoming(t *testing.T) {
	entries := sampleEntries()
	assert.Len(t, Upcoming(entries, monday(8, 0)), 3)
	assert.Equal(t, []string{"", "meeting"}, titles(Upcoming(entries, monday(9, 25))))
	assert.Empty(t, Upcoming(entries, monday(11, 0)))
}

func TestSortEntriesIsStable(t *testing.T) {
	entries := []Entry{
		Calendar("late", span.New(monday(12, 0), 10)),
		Calendar("first", span.New(monday(9, 0), 10)),
		Calendar("second", span.New(monday(9, 0), 30)),
	}
	sortEntries(entries)
	assert.Equal(t, []string{"first", "second", "late"}, titles(entries))
}

func TestDisplayTitle(t *testing.T) {
	s := span.New(monday(9, 0), 5)
	assert.Equal(t, "Break", Break(s).DisplayTitle())
	assert.Equal(t, "Sleep", Sleep(s).DisplayTitle())
	assert.Equal(t, "write", Job("write", s).DisplayTitle())
	assert.Equal(t, "write, 50 minutes unscheduled", Unscheduled{Name: "write", Minutes: 50}.String())
}
