package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"sparrow/internal/config"
	appLog "sparrow/internal/log"
	"sparrow/internal/schedule"
	"sparrow/internal/store"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	jobStyle     = lipgloss.NewStyle().Bold(true)
	restStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func (a *app) newMakeCmd() *cobra.Command {
	var method string
	cmd := &cobra.Command{
		Use:   "make",
		Short: "Make a schedule from your tasks, events and sleep",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.update(func(cfg *config.Config, ud *store.UserData) error {
				name := method
				if name == "" {
					name = cfg.DefaultMethod
				}
				m, err := schedule.ParseMethod(name)
				if err != nil {
					return err
				}

				s, warnings, err := schedule.Make(m, ud.Inputs(cfg, a.now()))
				if err != nil {
					return err
				}
				ud.SetSchedule(s)
				appLog.Debug("schedule made", "method", m, "entries", len(s.Entries), "days", len(s.Days), "warnings", len(warnings))

				for _, w := range warnings {
					a.printf("%s\n", warningStyle.Render("Warning: "+w.String()))
				}
				a.printf("Done! Made a %s schedule.\n", m)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&method, "method", "m", "", "pomodoro or ivy-lee (default from config)")
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "View your schedule",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, ud, err := a.load()
			if err != nil {
				return err
			}
			if ud.Schedule == nil {
				return errNoSchedule
			}
			now := a.now()
			if p, ok := ud.Schedule.Pomodoro(); ok {
				a.showPomodoro(cfg, p, now)
				return nil
			}
			if il, ok := ud.Schedule.IvyLee(); ok {
				a.showIvyLee(cfg, il, now)
				return nil
			}
			return fmt.Errorf("stored schedule has unknown method %q", ud.Schedule.Method)
		},
	}
}

// showPomodoro prints every entry that has not ended as
// "<date time> :: <title>".
func (a *app) showPomodoro(cfg *config.Config, p schedule.Pomodoro, now time.Time) {
	loc := cfg.Location()
	layout := cfg.DateFormat + " " + cfg.TimeFormat
	upcoming := schedule.Upcoming(p.Entries, now)
	if len(upcoming) == 0 {
		a.printf("Nothing left on the schedule.\n")
		return
	}
	for _, e := range upcoming {
		title := e.DisplayTitle()
		switch e.Kind {
		case schedule.EntryJob:
			title = jobStyle.Render(title)
		case schedule.EntryBreak, schedule.EntrySleep:
			title = restStyle.Render(title)
		}
		a.printf("%s :: %s\n", timeStyle.Render(e.Start().In(loc).Format(layout)), title)
	}
}

func (a *app) showIvyLee(cfg *config.Config, il schedule.IvyLee, now time.Time) {
	loc := cfg.Location()
	section := func(header string, labels []string, ok bool) {
		a.printf("%s\n", headerStyle.Render(header))
		switch {
		case !ok:
			a.printf("  (day off)\n")
		case len(labels) == 0:
			a.printf("  (nothing)\n")
		}
		for i, l := range labels {
			a.printf("  %d. %s\n", i+1, l)
		}
	}
	today, ok := il.Today(now, loc)
	section("Today", today, ok)
	tomorrow, ok := il.Tomorrow(now, loc)
	section("Tomorrow", tomorrow, ok)
}
