package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparrow/internal/config"
	"sparrow/internal/model"
	"sparrow/internal/schedule"
	"sparrow/internal/span"
)

var due = time.Date(2026, 3, 4, 17, 0, 0, 0, time.UTC)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	ud, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Equal(t, New(), ud)
	assert.Equal(t, model.DefaultBedtime(), ud.Bedtime)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sparrow")

	ud := New()
	require.NoError(t, ud.AddTask(model.Task{
		Name:                    "essay",
		DueDate:                 due,
		Duration:                model.Subtasks(model.Subtask{Name: "outline", Minutes: 20}, model.Subtask{Name: "draft", Minutes: 90}),
		ConsiderationPeriodDays: 2,
	}))
	require.NoError(t, ud.AddTask(model.Task{Name: "taxes", DueDate: due.Add(time.Hour), Duration: model.Minutes(45), Done: true}))
	require.NoError(t, ud.AddEvent(model.CalendarEvent{
		Name:   "class",
		Span:   span.New(due.AddDate(0, 0, -2), 90),
		Kind:   model.KindEvent,
		Repeat: model.RepeatWeekly(model.Weekday(time.Monday), model.Weekday(time.Wednesday)),
	}))
	require.NoError(t, ud.SetBedtime(model.Bedtime{Start: model.Clock{Hour: 23, Minute: 30}, Hours: 7.5}))
	ud.SetSchedule(schedule.Schedule{
		Method: schedule.MethodPomodoro,
		MadeAt: due.AddDate(0, 0, -2),
		Entries: []schedule.Entry{
			schedule.Job("essay: outline", span.New(due.AddDate(0, 0, -1), 25)),
			schedule.Break(span.New(due.AddDate(0, 0, -1).Add(25*time.Minute), 5)),
		},
	})

	require.NoError(t, ud.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ud, back)

	entries, ok := back.PomodoroEntries()
	require.True(t, ok)
	assert.Len(t, entries, 2)
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".sparrow")
	require.NoError(t, os.WriteFile(path, []byte("version: 99\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "newer than supported")
}

func TestTaskOperations(t *testing.T) {
	ud := New()
	require.NoError(t, ud.AddTask(model.Task{Name: "a", DueDate: due}))
	require.NoError(t, ud.AddTask(model.Task{Name: "b", DueDate: due.AddDate(0, 0, 1)}))

	assert.ErrorIs(t, ud.AddTask(model.Task{Name: "a"}), ErrDuplicateName)
	assert.Error(t, ud.AddTask(model.Task{}))

	require.NoError(t, ud.MarkDone("b"))
	assert.True(t, ud.Tasks[1].Done)
	assert.ErrorIs(t, ud.MarkDone("zzz"), ErrTaskNotFound)

	require.NoError(t, ud.RemoveTask("a"))
	require.Len(t, ud.Tasks, 1)
	assert.Equal(t, "b", ud.Tasks[0].Name)
	assert.ErrorIs(t, ud.RemoveTask("a"), ErrTaskNotFound)
}

func TestRemoveEventRemovesAllWithName(t *testing.T) {
	ud := New()
	for _, name := range []string{"gym", "class", "gym"} {
		require.NoError(t, ud.AddEvent(model.CalendarEvent{Name: name, Span: span.New(due, 60)}))
	}
	assert.Equal(t, model.KindEvent, ud.Events[0].Kind)

	n, err := ud.RemoveEvent("gym")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, ud.Events, 1)

	_, err = ud.RemoveEvent("gym")
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.Error(t, ud.AddEvent(model.CalendarEvent{Name: "empty"}))
}

func TestCheckPastDue(t *testing.T) {
	ud := New()
	require.NoError(t, ud.AddTask(model.Task{Name: "old", DueDate: due.Add(-time.Hour)}))
	require.NoError(t, ud.AddTask(model.Task{Name: "now", DueDate: due}))
	require.NoError(t, ud.AddTask(model.Task{Name: "later", DueDate: due.Add(time.Hour)}))
	require.NoError(t, ud.AddTask(model.Task{Name: "closed", DueDate: due.Add(-time.Hour), Done: true}))

	assert.Equal(t, []string{"old", "now"}, ud.CheckPastDue(due))
	assert.False(t, ud.Tasks[2].Done)
	assert.Empty(t, ud.CheckPastDue(due))
}

func TestSetBedtimeRange(t *testing.T) {
	ud := New()
	assert.Error(t, ud.SetBedtime(model.Bedtime{Hours: 0}))
	assert.Error(t, ud.SetBedtime(model.Bedtime{Hours: 24}))
	assert.NoError(t, ud.SetBedtime(model.Bedtime{Start: model.Clock{Hour: 1}, Hours: 6}))
}

func TestPomodoroEntriesNeedsPomodoroSchedule(t *testing.T) {
	ud := New()
	_, ok := ud.PomodoroEntries()
	assert.False(t, ok)

	ud.SetSchedule(schedule.Schedule{Method: schedule.MethodIvyLee, Days: map[string][]string{"2026-03-02": {"Finish a"}}})
	_, ok = ud.PomodoroEntries()
	assert.False(t, ok)
}

func TestInputsUseConfiguredZone(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	ud := New()
	require.NoError(t, ud.AddTask(model.Task{Name: "a", DueDate: due}))

	in := ud.Inputs(cfg, due.Add(-time.Hour))
	assert.Equal(t, "UTC", in.Location.String())
	assert.Len(t, in.Tasks, 1)
	assert.Equal(t, ud.Bedtime, in.Bedtime)
}
