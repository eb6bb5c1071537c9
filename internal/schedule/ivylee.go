package schedule

import (
	"fmt"
	"time"

	"sparrow/internal/model"
)

const dayKeyLayout = "2006-01-02"

// IvyLee maps calendar days ("2006-01-02") to that day's task labels. Days
// that were skipped have no key; scheduled days with nothing to do map to an
// empty list.
type IvyLee struct {
	Days map[string][]string `yaml:"days" json:"days"`
}

// DayKey is the map key for the calendar date of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

// On returns the labels for the calendar date of t. ok is false when that
// day was not scheduled at all.
func (il IvyLee) On(t time.Time, loc *time.Location) (labels []string, ok bool) {
	labels, ok = il.Days[DayKey(t, loc)]
	return labels, ok
}

// Today returns the labels for the day of now.
func (il IvyLee) Today(now time.Time, loc *time.Location) ([]string, bool) {
	return il.On(now, loc)
}

// Tomorrow returns the labels for the day after now.
func (il IvyLee) Tomorrow(now time.Time, loc *time.Location) ([]string, bool) {
	return il.On(now.In(loc).AddDate(0, 0, 1), loc)
}

// MakeIvyLee walks the days from today through the last due date and gives
// each non-skipped day up to IvyLeeTasksPerDay tasks. A task due on that
// very day is labeled "Finish <task>" and leaves the queue; others get
// "1/<days left> of remaining <task>" and stay queued.
func MakeIvyLee(in Inputs) (IvyLee, []Unscheduled, error) {
	tasks := in.sortedTasks()
	if len(tasks) == 0 {
		return IvyLee{}, nil, ErrNoTasks
	}
	cfg := in.Config
	cfg.Normalize()
	loc := in.location()

	queue := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Done {
			queue = append(queue, t)
		}
	}

	days := make(map[string][]string)
	last := tasks[len(tasks)-1].DueDate.In(loc)
	lastY, lastM, lastD := last.Date()
	lastDay := time.Date(lastY, lastM, lastD, 0, 0, 0, 0, time.UTC)

	y, m, d := in.Now.In(loc).Date()
	for day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if model.ContainsWeekday(cfg.SkipDays, day.Weekday()) {
			continue
		}

		// The day starts when the user wakes up.
		startOfDay, err := LocalAt(day.Year(), day.Month(), day.Day(), in.Bedtime.End(), loc)
		if err != nil {
			return IvyLee{}, nil, err
		}

		var labels []string
		labels, queue = fillDay(queue, startOfDay, cfg.IvyLeeTasksPerDay)
		days[day.Format(dayKeyLayout)] = labels
	}

	var warnings []Unscheduled
	for _, t := range queue {
		warnings = append(warnings, Unscheduled{Name: t.Name, Minutes: t.Duration.Total()})
	}
	return IvyLee{Days: days}, warnings, nil
}

// fillDay assigns up to quota eligible tasks to the day starting at
// startOfDay. It returns the day's labels and a new queue without the tasks
// that were finished.
func fillDay(queue []model.Task, startOfDay time.Time, quota int) ([]string, []model.Task) {
	labels := []string{}
	remaining := make([]model.Task, 0, len(queue))

	for _, t := range queue {
		if len(labels) >= quota || t.IsPastDue(startOfDay) || !t.IsConsidered(startOfDay) {
			remaining = append(remaining, t)
			continue
		}

		daysUntilDue := int(t.DueDate.Sub(startOfDay)/(24*time.Hour)) + 1
		if daysUntilDue == 1 {
			labels = append(labels, fmt.Sprintf("Finish %s", t.Name))
			continue
		}
		labels = append(labels, fmt.Sprintf("1/%d of remaining %s", daysUntilDue, t.Name))
		remaining = append(remaining, t)
	}
	return labels, remaining
}
