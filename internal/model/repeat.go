package model

import (
	"fmt"
	"strings"
	"time"
)

type RepeatKind string

const (
	Never  RepeatKind = "never"
	Daily  RepeatKind = "daily"
	Weekly RepeatKind = "weekly"
)

// Repeat governs how an authored occurrence advances to the next one.
// Weekdays only matters for Weekly; empty means the anchor's own weekday.
type Repeat struct {
	Kind     RepeatKind `yaml:"kind" json:"kind"`
	Weekdays []Weekday  `yaml:"weekdays,omitempty" json:"weekdays,omitempty"`
}

func NoRepeat() Repeat { return Repeat{Kind: Never} }

func RepeatDaily() Repeat { return Repeat{Kind: Daily} }

func RepeatWeekly(days ...Weekday) Repeat {
	return Repeat{Kind: Weekly, Weekdays: days}
}

// ParseRepeatKind accepts any prefix of never/daily/weekly, case-insensitive.
// An empty string means Never.
func ParseRepeatKind(s string) (RepeatKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || strings.HasPrefix("never", s) || strings.HasPrefix("no", s):
		return Never, nil
	case strings.HasPrefix("daily", s):
		return Daily, nil
	case strings.HasPrefix("weekly", s):
		return Weekly, nil
	}
	return "", fmt.Errorf("unknown repeat %q (want never, daily or weekly)", s)
}

func (k *RepeatKind) UnmarshalText(b []byte) error {
	parsed, err := ParseRepeatKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Weekday is a time.Weekday that reads and writes as its lowercase name.
type Weekday time.Weekday

var weekdayNames = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// ParseWeekday accepts full names or three-letter abbreviations.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for i, name := range weekdayNames {
			if strings.HasPrefix(name, s) {
				return Weekday(i), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ParseWeekdays parses a comma separated list such as "mon,wed,fri".
func ParseWeekdays(s string) ([]Weekday, error) {
	var out []Weekday
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (d Weekday) Std() time.Weekday { return time.Weekday(d) }

func (d Weekday) String() string {
	if d < 0 || int(d) >= len(weekdayNames) {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

func (d Weekday) MarshalText() ([]byte, error) {
	if d < 0 || int(d) >= len(weekdayNames) {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ContainsWeekday reports whether days includes wd.
func ContainsWeekday(days []Weekday, wd time.Weekday) bool {
	for _, d := range days {
		if d.Std() == wd {
			return true
		}
	}
	return false
}
