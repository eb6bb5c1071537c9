// Package schedule turns tasks, calendar events and a sleep window into a
// concrete schedule. It is pure: every call works only on its inputs,
// including the injected current time, and returns a fresh value.
package schedule

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"sparrow/internal/config"
	"sparrow/internal/model"
)

// Method is one of the two allocation policies.
type Method string

const (
	MethodPomodoro Method = "pomodoro"
	MethodIvyLee   Method = "ivy-lee"
)

// ParseMethod accepts "pomodoro", "ivy-lee", "ivylee" or "ivy".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pomodoro", "p":
		return MethodPomodoro, nil
	case "ivy-lee", "ivylee", "ivy", "i":
		return MethodIvyLee, nil
	}
	return "", fmt.Errorf("unknown method %q (want pomodoro or ivy-lee)", s)
}

// Inputs is the common input contract of both methods.
type Inputs struct {
	Config  config.Config
	Tasks   []model.Task
	Events  []model.CalendarEvent
	Bedtime model.Bedtime
	Now     time.Time
	// Location is the zone days and times of day are resolved in. Nil means
	// Config.Location().
	Location *time.Location
}

func (in Inputs) location() *time.Location {
	if in.Location != nil {
		return in.Location
	}
	return in.Config.Location()
}

// sortedTasks returns a copy of the tasks ordered by due date. Tasks due at
// the same instant keep their input order.
func (in Inputs) sortedTasks() []model.Task {
	tasks := slices.Clone(in.Tasks)
	slices.SortStableFunc(tasks, func(a, b model.Task) int {
		return a.DueDate.Compare(b.DueDate)
	})
	return tasks
}

// Schedule is the stored result of either method. Exactly one of Entries
// (pomodoro) or Days (ivy-lee) is meaningful, selected by Method.
type Schedule struct {
	Method  Method              `yaml:"method" json:"method"`
	MadeAt  time.Time           `yaml:"made_at" json:"made_at"`
	Entries []Entry             `yaml:"entries,omitempty" json:"entries,omitempty"`
	Days    map[string][]string `yaml:"days,omitempty" json:"days,omitempty"`
}

// Pomodoro returns the typed Pomodoro view, if this is a Pomodoro schedule.
func (s Schedule) Pomodoro() (Pomodoro, bool) {
	if s.Method != MethodPomodoro {
		return Pomodoro{}, false
	}
	return Pomodoro{Entries: s.Entries}, true
}

// IvyLee returns the typed Ivy-Lee view, if this is an Ivy-Lee schedule.
func (s Schedule) IvyLee() (IvyLee, bool) {
	if s.Method != MethodIvyLee {
		return IvyLee{}, false
	}
	return IvyLee{Days: s.Days}, true
}

// Make runs the selected method. Warnings list work that could not be fit;
// they accompany a valid, possibly incomplete schedule.
func Make(method Method, in Inputs) (Schedule, []Unscheduled, error) {
	switch method {
	case MethodPomodoro:
		p, warnings, err := MakePomodoro(in)
		if err != nil {
			return Schedule{}, nil, err
		}
		return Schedule{Method: method, MadeAt: in.Now, Entries: p.Entries}, warnings, nil
	case MethodIvyLee:
		il, warnings, err := MakeIvyLee(in)
		if err != nil {
			return Schedule{}, nil, err
		}
		return Schedule{Method: method, MadeAt: in.Now, Days: il.Days}, warnings, nil
	}
	return Schedule{}, nil, fmt.Errorf("unknown method %q", method)
}
