package schedule

import (
	"slices"
	"time"

	"sparrow/internal/config"
	"sparrow/internal/span"
)

// Pomodoro is a time-ordered list of fixed entries plus packed work
// sessions.
type Pomodoro struct {
	Entries []Entry `yaml:"entries" json:"entries"`
}

// MakePomodoro packs work periods into the free time between calendar
// events and sleep, session by session, in due-date order.
func MakePomodoro(in Inputs) (Pomodoro, []Unscheduled, error) {
	tasks := in.sortedTasks()
	if len(tasks) == 0 {
		return Pomodoro{}, nil, ErrNoTasks
	}
	cfg := in.Config
	cfg.Normalize()

	horizon := tasks[len(tasks)-1].DueDate

	fixed, err := FixedEntries(in.Events, in.Bedtime, in.Now, horizon, in.location())
	if err != nil {
		return Pomodoro{}, nil, err
	}

	sessions := openSessions(freeSpans(fixed, in.Now, horizon), &cfg)
	filled, rest := packSessions(sessions, workUnits(tasks, cfg.WorkMinutes, in.Now), &cfg)

	entries := slices.Clone(fixed)
	for _, s := range filled {
		entries = append(entries, s.entries(cfg.LongBreakMinutes)...)
	}
	sortEntries(entries)

	var warnings []Unscheduled
	for _, u := range rest {
		warnings = append(warnings, Unscheduled{Name: u.Title, Minutes: u.remainingMinutes(cfg.WorkMinutes)})
	}
	return Pomodoro{Entries: entries}, warnings, nil
}

// workSession is a run of up to maxJobs work periods separated by short
// breaks and closed by a long break. owners holds the task name behind each
// job in titles.
type workSession struct {
	start      time.Time
	titles     []string
	owners     []string
	maxJobs    int
	workMin    int
	shortBreak int
}

func newWorkSession(start time.Time, cfg *config.Config) workSession {
	return workSession{
		start:      start,
		maxJobs:    cfg.WorkPeriodsPerSession,
		workMin:    cfg.WorkMinutes,
		shortBreak: cfg.ShortBreakMinutes,
	}
}

func (s workSession) full() bool {
	return len(s.titles) >= s.maxJobs
}

// withJob returns the session with one more job. Callers must check full()
// first.
func (s workSession) withJob(u workUnit) workSession {
	if s.full() {
		panic("schedule: work session is full; no more jobs can be scheduled")
	}
	s.titles = append(slices.Clip(s.titles), u.Title)
	s.owners = append(slices.Clip(s.owners), u.Task.Name)
	return s
}

func (s workSession) jobSpan(i int) span.TimeSpan {
	offset := time.Duration(i*(s.workMin+s.shortBreak)) * time.Minute
	return span.New(s.start.Add(offset), s.workMin)
}

// ending is when the last job ends.
func (s workSession) ending() time.Time {
	if len(s.titles) == 0 {
		return s.start
	}
	return s.jobSpan(len(s.titles) - 1).End()
}

// lastTask is the task behind the session's last job.
func (s workSession) lastTask() string {
	if len(s.owners) == 0 {
		return ""
	}
	return s.owners[len(s.owners)-1]
}

// entries materializes the session: job, short break, job, ..., job, long
// break.
func (s workSession) entries(longBreak int) []Entry {
	if len(s.titles) == 0 {
		return nil
	}
	out := make([]Entry, 0, 2*len(s.titles))
	for i, title := range s.titles {
		job := s.jobSpan(i)
		out = append(out, Job(title, job))
		if i < len(s.titles)-1 {
			out = append(out, Break(span.New(job.End(), s.shortBreak)))
		}
	}
	return append(out, Break(span.New(s.ending(), longBreak)))
}

// openSessions carves every free span into back-to-back full-length
// sessions. Leftover time shorter than a session is not used.
func openSessions(free []span.TimeSpan, cfg *config.Config) []workSession {
	length := cfg.SessionMinutes()
	var out []workSession
	for _, f := range free {
		for f.Minutes >= length {
			out = append(out, newWorkSession(f.Start, cfg))
			f = f.ShrinkFromStart(length)
		}
	}
	return out
}

// packSessions fills sessions in order from the unit queue. It returns the
// filled sessions and the units that still have periods left.
func packSessions(sessions []workSession, queue []workUnit, cfg *config.Config) ([]workSession, []workUnit) {
	var (
		filled []workSession
		prev   workSession
	)
	for _, s := range sessions {
		avoid := ""
		if !cfg.AllowRepeats && len(prev.titles) > 0 &&
			prev.ending().Add(time.Duration(cfg.LongBreakMinutes)*time.Minute).Equal(s.start) {
			avoid = prev.lastTask()
		}

		s, queue = fillSession(s, queue, avoid)
		if len(s.titles) > 0 {
			filled = append(filled, s)
		}
		prev = s
		if len(queue) == 0 {
			break
		}
	}
	return filled, queue
}

// fillSession takes periods from the queue until the session is full. No
// unit of the task named avoid may open the session. It returns the session and a new
// queue holding the units with periods left, in their original order.
func fillSession(s workSession, queue []workUnit, avoid string) (workSession, []workUnit) {
	units := slices.Clone(queue)

	order := make([]int, 0, len(units))
	var deferred []int
	for i, u := range units {
		if avoid != "" && u.Task.Name == avoid {
			deferred = append(deferred, i)
			continue
		}
		order = append(order, i)
	}
	order = append(order, deferred...)

	for _, i := range order {
		u := &units[i]
		if avoid != "" && u.Task.Name == avoid && len(s.titles) == 0 {
			continue
		}
		for u.Periods > 0 && !s.full() && fitsBeforeDue(s, *u) {
			s = s.withJob(*u)
			u.Periods--
		}
		if s.full() {
			break
		}
	}

	rest := make([]workUnit, 0, len(units))
	for _, u := range units {
		if u.Periods > 0 {
			rest = append(rest, u)
		}
	}
	return s, rest
}

// fitsBeforeDue reports whether the session's next job would end by the
// unit's due date.
func fitsBeforeDue(s workSession, u workUnit) bool {
	return !s.jobSpan(len(s.titles)).End().After(u.Task.DueDate)
}
