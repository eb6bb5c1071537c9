package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparrow/internal/config"
	"sparrow/internal/schedule"
	"sparrow/internal/store"
)

type cli struct {
	t        *testing.T
	dir      string
	dataPath string
	cfgPath  string
	now      time.Time
}

func newCLI(t *testing.T, timezone string) *cli {
	t.Helper()
	dir := t.TempDir()
	c := &cli{
		t:        t,
		dir:      dir,
		dataPath: filepath.Join(dir, ".sparrow"),
		cfgPath:  filepath.Join(dir, "config.yaml"),
		now:      time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	cfg := config.DefaultConfig()
	cfg.Timezone = timezone
	require.NoError(t, cfg.Save(c.cfgPath))
	return c
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, func() time.Time { return c.now })
	cmd.SetArgs(append([]string{"--file", c.dataPath, "--config", c.cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func (c *cli) data() *store.UserData {
	c.t.Helper()
	ud, err := store.Load(c.dataPath)
	require.NoError(c.t, err)
	return ud
}

func TestRootCommandName(t *testing.T) {
	assert.Equal(t, "sparrow", newRootCmd(&bytes.Buffer{}, time.Now).Use)
}

func TestPomodoroWorkflow(t *testing.T) {
	c := newCLI(t, "UTC")

	c.mustRun("add", "task", "essay", "--due", "2026-03-04", "--at", "09:00", "--minutes", "50")
	c.mustRun("add", "event", "standup", "--date", "2026-03-02", "--at", "10:00", "--minutes", "15", "--repeat", "daily")
	c.mustRun("set-sleep", "--start", "22:00", "--hours", "8")

	out := c.mustRun("make")
	assert.Contains(t, out, "Done!")
	assert.NotContains(t, out, "Warning")

	ud := c.data()
	require.NotNil(t, ud.Schedule)
	assert.Equal(t, schedule.MethodPomodoro, ud.Schedule.Method)

	out = c.mustRun("show")
	assert.Contains(t, out, "2026-03-02 10:00 :: standup")
	assert.Contains(t, out, "2026-03-02 10:15 :: essay")
	assert.Contains(t, out, "2026-03-02 10:45 :: essay")
	assert.Contains(t, out, "2026-03-02 22:00 :: Sleep")

	exported := filepath.Join(c.dir, "schedule.ics")
	c.mustRun("export", exported)
	body, err := os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(body), "SUMMARY:essay")

	out = c.mustRun("import", exported)
	assert.Contains(t, out, "Imported 4 event(s)")
	assert.Len(t, c.data().Events, 5)
}

func TestIvyLeeWorkflow(t *testing.T) {
	c := newCLI(t, "UTC")
	c.mustRun("add", "task", "essay", "--due", "2026-03-04", "--at", "09:00", "--minutes", "120")
	c.mustRun("set-sleep", "--start", "22:00", "--hours", "8")

	c.mustRun("make", "--method", "ivy-lee")
	out := c.mustRun("show")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "1. 1/3 of remaining essay")
	assert.Contains(t, out, "Tomorrow")
	assert.Contains(t, out, "1. 1/2 of remaining essay")

	_, err := c.run("export", filepath.Join(c.dir, "x.ics"))
	assert.ErrorIs(t, err, errNoSchedule)
}

func TestMakeReportsUnscheduledWork(t *testing.T) {
	c := newCLI(t, "UTC")
	c.mustRun("add", "task", "big", "--due", "2026-03-02", "--at", "12:00", "--minutes", "300")

	out := c.mustRun("make")
	assert.Contains(t, out, "Warning: big, 200 minutes unscheduled")
}

func TestSubtasks(t *testing.T) {
	c := newCLI(t, "UTC")
	c.mustRun("add", "task", "essay", "--due", "2026-03-05",
		"--subtask", "outline=20", "--subtask", "draft=90", "--consider", "1")

	tasks := c.data().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, 110, tasks[0].Duration.Total())
	assert.Equal(t, "outline", tasks[0].Duration.Subtasks[0].Name)
	assert.Equal(t, 1, tasks[0].ConsiderationPeriodDays)
	assert.Equal(t, 23, tasks[0].DueDate.Hour())

	_, err := c.run("add", "task", "bad", "--due", "2026-03-05", "--subtask", "nominutes")
	assert.Error(t, err)
	_, err = c.run("add", "task", "none", "--due", "2026-03-05")
	assert.Error(t, err)
}

func TestTaskLifecycle(t *testing.T) {
	c := newCLI(t, "UTC")
	c.mustRun("add", "task", "old", "--due", "2026-03-01", "--minutes", "30")
	c.mustRun("add", "task", "new", "--due", "2026-03-09", "--minutes", "30")
	c.mustRun("add", "break", "--date", "2026-03-02", "--at", "12:00", "--minutes", "60", "--repeat", "weekly", "--days", "mon,fri")

	out := c.mustRun("check")
	assert.Contains(t, out, `Checked off "old"`)

	c.mustRun("done", "new")
	for _, task := range c.data().Tasks {
		assert.True(t, task.Done, task.Name)
	}

	c.mustRun("delete", "task", "old")
	assert.Len(t, c.data().Tasks, 1)

	_, err := c.run("delete", "task", "old")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	events := c.data().Events
	require.Len(t, events, 1)
	assert.Len(t, events[0].Repeat.Weekdays, 2)
	c.mustRun("delete", "event", "")
	assert.Empty(t, c.data().Events)
}

func TestShowWithoutSchedule(t *testing.T) {
	c := newCLI(t, "UTC")
	_, err := c.run("show")
	assert.ErrorIs(t, err, errNoSchedule)
}

func TestLocalTimesAreValidated(t *testing.T) {
	c := newCLI(t, "America/New_York")

	_, err := c.run("add", "task", "dst", "--due", "2026-03-08", "--at", "02:30", "--minutes", "30")
	assert.ErrorIs(t, err, schedule.ErrInvalidTimezoneConversion)

	_, err = c.run("add", "task", "date", "--due", "03/08/2026", "--minutes", "30")
	assert.ErrorContains(t, err, "does not match")
}
