// Package daemon follows a Pomodoro schedule and notifies the user when an
// entry starts and shortly before the next one.
package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sparrow/internal/config"
	appLog "sparrow/internal/log"
	"sparrow/internal/schedule"
)

const notificationSummary = "Sparrow notification"

// Loader produces the entries to follow, typically by reading the data file.
type Loader func() ([]schedule.Entry, error)

// Daemon keeps per-entry notification state between ticks.
type Daemon struct {
	snap       *Snapshot
	notifier   Notifier
	warnBefore time.Duration

	mu              sync.Mutex
	current, next   *schedule.Entry
	notifiedCurrent bool
	warnedNext      bool
}

func New(snap *Snapshot, notifier Notifier, cfg *config.Config) *Daemon {
	return &Daemon{
		snap:       snap,
		notifier:   notifier,
		warnBefore: time.Duration(cfg.NextEventWarningMinutes) * time.Minute,
	}
}

// NewNotifier builds the notifier selected in the daemon config.
func NewNotifier(cfg config.DaemonConfig) (Notifier, error) {
	switch cfg.Notifier {
	case "command":
		return NewCommandNotifier(cfg.NotifyCommand, cfg.NotifyPerMinute)
	case "log", "":
		return LogNotifier{}, nil
	}
	return nil, fmt.Errorf("unknown notifier %q", cfg.Notifier)
}

// Tick re-selects the current and next entries and sends at most one
// notification: "Now: X" once per current entry, otherwise "In N minutes:
// Y" once when the next entry is within the warning window.
func (d *Daemon) Tick(ctx context.Context, now time.Time) error {
	cur, next := schedule.CurrentAndNext(d.snap.Entries(), now)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !sameEntry(cur, d.current) || !sameEntry(next, d.next) {
		d.current, d.next = cur, next
		d.notifiedCurrent = false
		d.warnedNext = false
	}

	switch {
	case !d.notifiedCurrent:
		d.notifiedCurrent = true
		if d.current == nil {
			return nil
		}
		body := "Now: " + d.current.DisplayTitle()
		if d.next != nil {
			body += "\nNext: " + d.next.DisplayTitle()
		}
		return d.notifier.Notify(ctx, notificationSummary, body)

	case !d.warnedNext:
		if d.next == nil {
			d.warnedNext = true
			return nil
		}
		if now.Before(d.next.Start().Add(-d.warnBefore)) {
			return nil
		}
		d.warnedNext = true
		minutes := int(d.next.Start().Sub(now) / time.Minute)
		return d.notifier.Notify(ctx, notificationSummary, fmt.Sprintf("In %d minutes: %s", minutes, d.next.DisplayTitle()))
	}
	return nil
}

// Reload replaces the followed entries using load. On failure the daemon
// keeps following the previous entries.
func (d *Daemon) Reload(load Loader) error {
	if err := d.snap.Update(load); err != nil {
		return err
	}
	appLog.Info("schedule reloaded", "entries", len(d.snap.Entries()))
	return nil
}

// Run ticks on the cron spec poll and reloads whenever the file at
// dataPath changes, until ctx is done.
func (d *Daemon) Run(ctx context.Context, poll, dataPath string, load Loader, clock func() time.Time) error {
	if clock == nil {
		clock = time.Now
	}

	c := cron.New()
	if _, err := c.AddFunc(poll, func() {
		if err := d.Tick(ctx, clock()); err != nil {
			appLog.Error("tick failed", err)
		}
	}); err != nil {
		return fmt.Errorf("poll spec %q: %w", poll, err)
	}

	if err := d.Tick(ctx, clock()); err != nil {
		appLog.Error("tick failed", err)
	}

	c.Start()
	defer func() { <-c.Stop().Done() }()

	appLog.Info("daemon started", "poll", poll, "file", dataPath)
	return Watch(ctx, dataPath, func() {
		if err := d.Reload(load); err != nil {
			appLog.Error("schedule reload failed; keeping previous schedule", err, "file", dataPath)
			return
		}
		if err := d.Tick(ctx, clock()); err != nil {
			appLog.Error("tick failed", err)
		}
	})
}

func sameEntry(a, b *schedule.Entry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind == b.Kind && a.Title == b.Title && a.Span.Minutes == b.Span.Minutes && a.Start().Equal(b.Start())
}
