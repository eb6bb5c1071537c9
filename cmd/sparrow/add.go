package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sparrow/internal/config"
	"sparrow/internal/model"
	"sparrow/internal/span"
	"sparrow/internal/store"
)

func (a *app) newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task, event or break",
	}
	cmd.AddCommand(a.newAddTaskCmd(), a.newAddEventCmd(model.KindEvent), a.newAddEventCmd(model.KindBreak))
	return cmd
}

func (a *app) newAddTaskCmd() *cobra.Command {
	var (
		due      string
		at       string
		minutes  int
		subtasks []string
		consider int
	)
	cmd := &cobra.Command{
		Use:   "task <name>",
		Short: "Add a due-dated task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.update(func(cfg *config.Config, ud *store.UserData) error {
				dueAt, err := parseLocal(cfg, due, at)
				if err != nil {
					return err
				}

				duration, err := taskDuration(minutes, subtasks)
				if err != nil {
					return err
				}

				days := cfg.ConsiderationPeriodDays
				if cmd.Flags().Changed("consider") {
					days = consider
				}

				t := model.Task{
					Name:                    args[0],
					DueDate:                 dueAt,
					Duration:                duration,
					ConsiderationPeriodDays: days,
				}
				if err := ud.AddTask(t); err != nil {
					return err
				}
				a.printf("Added task %q due %s (%d minutes)\n", t.Name, dueAt.Format(cfg.DateFormat+" "+cfg.TimeFormat), duration.Total())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date")
	cmd.Flags().StringVar(&at, "at", "23:59", "Due time of day")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Estimated minutes")
	cmd.Flags().StringArrayVar(&subtasks, "subtask", nil, "Subtask as name=minutes (repeatable, in order)")
	cmd.Flags().IntVar(&consider, "consider", 0, "Days before the due date to start working on it")
	_ = cmd.MarkFlagRequired("due")
	cmd.MarkFlagsMutuallyExclusive("minutes", "subtask")
	cmd.MarkFlagsOneRequired("minutes", "subtask")
	return cmd
}

func taskDuration(minutes int, subtasks []string) (model.TaskDuration, error) {
	if len(subtasks) == 0 {
		if minutes <= 0 {
			return model.TaskDuration{}, fmt.Errorf("--minutes must be positive")
		}
		return model.Minutes(minutes), nil
	}
	subs := make([]model.Subtask, 0, len(subtasks))
	for _, s := range subtasks {
		name, m, ok := strings.Cut(s, "=")
		if !ok {
			return model.TaskDuration{}, fmt.Errorf("subtask %q: want name=minutes", s)
		}
		n, err := strconv.Atoi(strings.TrimSpace(m))
		if err != nil || n <= 0 {
			return model.TaskDuration{}, fmt.Errorf("subtask %q: minutes must be a positive number", s)
		}
		subs = append(subs, model.Subtask{Name: strings.TrimSpace(name), Minutes: n})
	}
	return model.Subtasks(subs...), nil
}

func (a *app) newAddEventCmd(kind model.EventKind) *cobra.Command {
	var (
		date    string
		at      string
		minutes int
		repeat  string
		days    string
	)
	cmd := &cobra.Command{
		Use:   "event <name>",
		Short: "Add a calendar event",
		Args:  cobra.ExactArgs(1),
	}
	if kind == model.KindBreak {
		cmd.Use = "break"
		cmd.Short = "Add a planned break"
		cmd.Args = cobra.NoArgs
	}

	cmd.RunE = func(_ *cobra.Command, args []string) error {
		return a.update(func(cfg *config.Config, ud *store.UserData) error {
			start, err := parseLocal(cfg, date, at)
			if err != nil {
				return err
			}
			r, err := parseRepeat(repeat, days)
			if err != nil {
				return err
			}

			ev := model.CalendarEvent{Span: span.New(start, minutes), Kind: kind, Repeat: r}
			if len(args) > 0 {
				ev.Name = args[0]
			}
			if err := ud.AddEvent(ev); err != nil {
				return err
			}
			a.printf("Added %s %s repeating %s\n", kind, ev.Span, r.Kind)
			return nil
		})
	}

	cmd.Flags().StringVar(&date, "date", "", "Date of the first occurrence")
	cmd.Flags().StringVar(&at, "at", "", "Start time of day")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Length in minutes")
	cmd.Flags().StringVar(&repeat, "repeat", "never", "never, daily or weekly")
	cmd.Flags().StringVar(&days, "days", "", "Weekdays for weekly repeats, e.g. mon,wed")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("at")
	_ = cmd.MarkFlagRequired("minutes")
	return cmd
}

func parseRepeat(kind, days string) (model.Repeat, error) {
	k, err := model.ParseRepeatKind(kind)
	if err != nil {
		return model.Repeat{}, err
	}
	switch k {
	case model.Daily:
		return model.RepeatDaily(), nil
	case model.Weekly:
		wds, err := model.ParseWeekdays(days)
		if err != nil {
			return model.Repeat{}, err
		}
		return model.RepeatWeekly(wds...), nil
	}
	if days != "" {
		return model.Repeat{}, fmt.Errorf("--days only applies to weekly repeats")
	}
	return model.NoRepeat(), nil
}
