package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sparrow/internal/model"
)

func TestPeriodsFor(t *testing.T) {
	for _, tc := range []struct {
		minutes, want int
	}{
		{0, 0},
		{-5, 0},
		{1, 1},
		{25, 1},
		{26, 2},
		{100, 4},
	} {
		assert.Equal(t, tc.want, periodsFor(tc.minutes, 25), "minutes=%d", tc.minutes)
	}
}

func TestWorkUnits(t *testing.T) {
	now := monday(9, 0)
	done := task("done", day(1, 9, 0), 50)
	done.Done = true
	past := task("past", monday(9, 0), 50)
	essay := model.Task{
		Name:    "essay",
		DueDate: day(2, 9, 0),
		Duration: model.Subtasks(
			model.Subtask{Name: "outline", Minutes: 10},
			model.Subtask{Name: "draft", Minutes: 60},
		),
	}

	units := workUnits([]model.Task{done, past, task("flat", day(1, 9, 0), 60), essay}, 25, now)

	var got []string
	var periods []int
	for _, u := range units {
		got = append(got, u.Title)
		periods = append(periods, u.Periods)
	}
	assert.Equal(t, []string{"flat", "essay: outline", "essay: draft"}, got)
	assert.Equal(t, []int{3, 1, 3}, periods)
	assert.Equal(t, 75, units[0].remainingMinutes(25))
	assert.Equal(t, "essay", units[2].Task.Name)
}
