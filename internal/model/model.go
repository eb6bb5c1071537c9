package model

import (
	"time"

	"sparrow/internal/span"
)

// DefaultConsiderationDays is how far ahead of its due date a new task is
// considered for scheduling.
const DefaultConsiderationDays = 3

// Task is a due-dated piece of work from the user's backlog.
type Task struct {
	Name    string    `yaml:"name" json:"name"`
	DueDate time.Time `yaml:"due_date" json:"due_date"`

	// Duration is the user's estimate of how long the task will take.
	Duration TaskDuration `yaml:"duration" json:"duration"`

	Done bool `yaml:"done" json:"done"`

	// ConsiderationPeriodDays is how many days before DueDate the task
	// becomes eligible for scheduling.
	ConsiderationPeriodDays int `yaml:"consideration_period_days" json:"consideration_period_days"`
}

// TaskDuration is either a flat minute count or an ordered list of
// subtasks. When Subtasks is non-empty, Minutes is ignored.
type TaskDuration struct {
	Minutes  int       `yaml:"minutes,omitempty" json:"minutes,omitempty"`
	Subtasks []Subtask `yaml:"subtasks,omitempty" json:"subtasks,omitempty"`
}

type Subtask struct {
	Name    string `yaml:"name" json:"name"`
	Minutes int    `yaml:"minutes" json:"minutes"`
}

// Minutes returns a flat duration.
func Minutes(m int) TaskDuration {
	return TaskDuration{Minutes: m}
}

// Subtasks returns a duration made of the given subtasks.
func Subtasks(subs ...Subtask) TaskDuration {
	return TaskDuration{Subtasks: subs}
}

func (d TaskDuration) HasSubtasks() bool {
	return len(d.Subtasks) > 0
}

// Total returns the total estimated minutes.
func (d TaskDuration) Total() int {
	if !d.HasSubtasks() {
		return d.Minutes
	}
	total := 0
	for _, s := range d.Subtasks {
		total += s.Minutes
	}
	return total
}

// IsPastDue reports whether the due date is at or before t.
func (t Task) IsPastDue(at time.Time) bool {
	return !t.DueDate.After(at)
}

// IsConsidered reports whether at falls inside the task's consideration
// window, i.e. due_date - consideration_period_days <= at.
func (t Task) IsConsidered(at time.Time) bool {
	opens := t.DueDate.AddDate(0, 0, -t.ConsiderationPeriodDays)
	return !opens.After(at)
}

// EventKind distinguishes calendar commitments from planned breaks.
type EventKind string

const (
	KindEvent EventKind = "event"
	KindBreak EventKind = "break"
)

// CalendarEvent is an occupied, possibly repeating block of time.
type CalendarEvent struct {
	Name   string        `yaml:"name" json:"name"`
	Span   span.TimeSpan `yaml:"span" json:"span"`
	Kind   EventKind     `yaml:"kind" json:"kind"`
	Repeat Repeat        `yaml:"repeat" json:"repeat"`
}
