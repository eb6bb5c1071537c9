package schedule

import (
	"time"

	"sparrow/internal/model"
)

// workUnit is one schedulable piece of a task: the whole task for a flat
// duration, or one subtask. Periods counts the whole work periods still to
// be placed.
type workUnit struct {
	Title   string
	Task    model.Task
	Periods int
}

func (u workUnit) remainingMinutes(workMinutes int) int {
	return u.Periods * workMinutes
}

// workUnits expands due-date-sorted tasks into work units. Done tasks and
// tasks due at or before now are skipped. Subtasks of one task keep their
// order.
func workUnits(tasks []model.Task, workMinutes int, now time.Time) []workUnit {
	var units []workUnit
	for _, t := range tasks {
		if t.Done || t.IsPastDue(now) {
			continue
		}
		if !t.Duration.HasSubtasks() {
			units = append(units, workUnit{
				Title:   t.Name,
				Task:    t,
				Periods: periodsFor(t.Duration.Minutes, workMinutes),
			})
			continue
		}
		for _, s := range t.Duration.Subtasks {
			units = append(units, workUnit{
				Title:   t.Name + ": " + s.Name,
				Task:    t,
				Periods: periodsFor(s.Minutes, workMinutes),
			})
		}
	}
	return units
}

// periodsFor is ceil(minutes / workMinutes).
func periodsFor(minutes, workMinutes int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + workMinutes - 1) / workMinutes
}
