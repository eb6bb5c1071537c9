// Package store persists the user's tasks, calendar events, bedtime and last
// schedule in a single YAML file.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"sparrow/internal/config"
	"sparrow/internal/model"
	"sparrow/internal/schedule"
)

// CurrentVersion is written into every saved file.
const CurrentVersion = 1

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrEventNotFound = errors.New("event not found")
	ErrDuplicateName = errors.New("name already in use")
)

// UserData is everything sparrow remembers between runs.
type UserData struct {
	Version  int                   `yaml:"version" json:"version"`
	Tasks    []model.Task          `yaml:"tasks" json:"tasks"`
	Events   []model.CalendarEvent `yaml:"events" json:"events"`
	Bedtime  model.Bedtime         `yaml:"bedtime" json:"bedtime"`
	Schedule *schedule.Schedule    `yaml:"schedule,omitempty" json:"schedule,omitempty"`
}

// New returns empty user data with the default bedtime.
func New() *UserData {
	return &UserData{
		Version: CurrentVersion,
		Tasks:   []model.Task{},
		Events:  []model.CalendarEvent{},
		Bedtime: model.DefaultBedtime(),
	}
}

// DefaultPath returns ~/.sparrow.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sparrow"
	}
	return filepath.Join(home, ".sparrow")
}

// Load reads the data file at path. A missing file yields New().
func Load(path string) (*UserData, error) {
	if path == "" {
		return nil, errors.New("data path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, err
	}

	ud := New()
	if err := yaml.Unmarshal(data, ud); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	if ud.Version > CurrentVersion {
		return nil, fmt.Errorf("data file %s has version %d, newer than supported %d", path, ud.Version, CurrentVersion)
	}
	ud.normalize()
	return ud, nil
}

// Save writes the data atomically with 0600 permissions.
func (ud *UserData) Save(path string) error {
	if path == "" {
		return errors.New("data path is empty")
	}
	ud.normalize()
	data, err := yaml.Marshal(ud)
	if err != nil {
		return err
	}
	return config.WriteFileAtomic(path, data)
}

func (ud *UserData) normalize() {
	ud.Version = CurrentVersion
	if ud.Tasks == nil {
		ud.Tasks = []model.Task{}
	}
	if ud.Events == nil {
		ud.Events = []model.CalendarEvent{}
	}
	if ud.Bedtime.Hours <= 0 {
		ud.Bedtime = model.DefaultBedtime()
	}
}

// AddTask appends a task. Task names are unique.
func (ud *UserData) AddTask(t model.Task) error {
	if t.Name == "" {
		return errors.New("task name is empty")
	}
	if ud.taskIndex(t.Name) >= 0 {
		return fmt.Errorf("task %q: %w", t.Name, ErrDuplicateName)
	}
	ud.Tasks = append(ud.Tasks, t)
	return nil
}

// AddEvent appends a calendar event or break. Events may share names; a
// repeating class and a one-off with the same title are both fine.
func (ud *UserData) AddEvent(ev model.CalendarEvent) error {
	if ev.Span.Minutes <= 0 {
		return fmt.Errorf("event %q: duration must be positive", ev.Name)
	}
	if ev.Kind == "" {
		ev.Kind = model.KindEvent
	}
	ud.Events = append(ud.Events, ev)
	return nil
}

func (ud *UserData) RemoveTask(name string) error {
	i := ud.taskIndex(name)
	if i < 0 {
		return fmt.Errorf("%q: %w", name, ErrTaskNotFound)
	}
	ud.Tasks = slices.Delete(ud.Tasks, i, i+1)
	return nil
}

// RemoveEvent removes every event called name and reports how many went.
func (ud *UserData) RemoveEvent(name string) (int, error) {
	before := len(ud.Events)
	ud.Events = slices.DeleteFunc(ud.Events, func(ev model.CalendarEvent) bool {
		return ev.Name == name
	})
	removed := before - len(ud.Events)
	if removed == 0 {
		return 0, fmt.Errorf("%q: %w", name, ErrEventNotFound)
	}
	return removed, nil
}

func (ud *UserData) MarkDone(name string) error {
	i := ud.taskIndex(name)
	if i < 0 {
		return fmt.Errorf("%q: %w", name, ErrTaskNotFound)
	}
	ud.Tasks[i].Done = true
	return nil
}

// CheckPastDue marks every open task due at or before now as done and
// returns their names.
func (ud *UserData) CheckPastDue(now time.Time) []string {
	var closed []string
	for i := range ud.Tasks {
		t := &ud.Tasks[i]
		if !t.Done && t.IsPastDue(now) {
			t.Done = true
			closed = append(closed, t.Name)
		}
	}
	return closed
}

func (ud *UserData) SetBedtime(b model.Bedtime) error {
	if b.Hours <= 0 || b.Hours >= 24 {
		return fmt.Errorf("sleep length %.2fh out of range (0, 24)", b.Hours)
	}
	ud.Bedtime = b
	return nil
}

func (ud *UserData) SetSchedule(s schedule.Schedule) {
	ud.Schedule = &s
}

// PomodoroEntries returns the stored Pomodoro entries. ok is false when no
// schedule was made yet or it was made with another method.
func (ud *UserData) PomodoroEntries() (entries []schedule.Entry, ok bool) {
	if ud.Schedule == nil {
		return nil, false
	}
	p, ok := ud.Schedule.Pomodoro()
	if !ok {
		return nil, false
	}
	return p.Entries, true
}

// Inputs assembles engine inputs from the stored data.
func (ud *UserData) Inputs(cfg *config.Config, now time.Time) schedule.Inputs {
	return schedule.Inputs{
		Config:   *cfg,
		Tasks:    slices.Clone(ud.Tasks),
		Events:   slices.Clone(ud.Events),
		Bedtime:  ud.Bedtime,
		Now:      now,
		Location: cfg.Location(),
	}
}

func (ud *UserData) taskIndex(name string) int {
	return slices.IndexFunc(ud.Tasks, func(t model.Task) bool { return t.Name == name })
}
