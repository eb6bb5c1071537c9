package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sparrow/internal/config"
	"sparrow/internal/model"
	"sparrow/internal/store"
)

func (a *app) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "delete task|event <name>",
		Short:     "Remove a task, or every event with the given name",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"task", "event"},
		RunE: func(_ *cobra.Command, args []string) error {
			what, name := args[0], args[1]
			return a.update(func(_ *config.Config, ud *store.UserData) error {
				switch what {
				case "task":
					if err := ud.RemoveTask(name); err != nil {
						return err
					}
					a.printf("Deleted task %q\n", name)
				case "event", "break":
					n, err := ud.RemoveEvent(name)
					if err != nil {
						return err
					}
					a.printf("Deleted %d event(s) named %q\n", n, name)
				default:
					return fmt.Errorf("can't delete %q; want task or event", what)
				}
				return nil
			})
		},
	}
}

func (a *app) newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <task>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.update(func(_ *config.Config, ud *store.UserData) error {
				if err := ud.MarkDone(args[0]); err != nil {
					return err
				}
				a.printf("Marked %q done\n", args[0])
				return nil
			})
		},
	}
}

func (a *app) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check off tasks past their due date",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.update(func(_ *config.Config, ud *store.UserData) error {
				closed := ud.CheckPastDue(a.now())
				if len(closed) == 0 {
					a.printf("No tasks past due\n")
					return nil
				}
				for _, name := range closed {
					a.printf("Checked off %q\n", name)
				}
				return nil
			})
		},
	}
}

func (a *app) newSetSleepCmd() *cobra.Command {
	var (
		start string
		hours string
	)
	cmd := &cobra.Command{
		Use:   "set-sleep",
		Short: "Set your nightly sleep window",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.update(func(cfg *config.Config, ud *store.UserData) error {
				c, err := parseClock(cfg, start)
				if err != nil {
					return err
				}
				h, err := strconv.ParseFloat(hours, 64)
				if err != nil {
					return fmt.Errorf("hours %q: %w", hours, err)
				}
				b := model.Bedtime{Start: c, Hours: h}
				if err := ud.SetBedtime(b); err != nil {
					return err
				}
				a.printf("Sleeping %s to %s\n", b.Start, b.End())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Bedtime")
	cmd.Flags().StringVar(&hours, "hours", "", "Hours of sleep, e.g. 7.5")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("hours")
	return cmd
}
