// Package main implements the sparrow CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sparrow/internal/config"
	appLog "sparrow/internal/log"
	"sparrow/internal/model"
	"sparrow/internal/schedule"
	"sparrow/internal/store"
)

func main() {
	if err := newRootCmd(os.Stdout, time.Now).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the resolved paths and injected clock for one invocation.
type app struct {
	out        io.Writer
	now        func() time.Time
	dataPath   string
	configPath string
}

func newRootCmd(out io.Writer, now func() time.Time) *cobra.Command {
	a := &app{out: out, now: now}

	root := &cobra.Command{
		Use:           "sparrow",
		Short:         "Sparrow - plan due-dated tasks around your calendar",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVarP(&a.dataPath, "file", "f", store.DefaultPath(), "Data file")
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultPath(), "Config file")

	root.AddCommand(
		a.newAddCmd(),
		a.newDeleteCmd(),
		a.newDoneCmd(),
		a.newCheckCmd(),
		a.newSetSleepCmd(),
		a.newMakeCmd(),
		a.newShowCmd(),
		a.newImportCmd(),
		a.newExportCmd(),
	)
	return root
}

// load reads config and user data.
func (a *app) load() (*config.Config, *store.UserData, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, nil, err
	}
	ud, err := store.Load(a.dataPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ud, nil
}

// update loads the user data, applies fn and saves the result.
func (a *app) update(fn func(cfg *config.Config, ud *store.UserData) error) error {
	cfg, ud, err := a.load()
	if err != nil {
		return err
	}
	if err := fn(cfg, ud); err != nil {
		return err
	}
	return ud.Save(a.dataPath)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// parseLocal resolves a date and a time of day, written in the configured
// formats, to an instant in the configured timezone.
func parseLocal(cfg *config.Config, date, clock string) (time.Time, error) {
	d, err := time.Parse(cfg.DateFormat, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q does not match %q: %w", date, cfg.DateFormat, err)
	}
	c, err := parseClock(cfg, clock)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.LocalAt(d.Year(), d.Month(), d.Day(), c, cfg.Location())
}

func parseClock(cfg *config.Config, s string) (model.Clock, error) {
	t, err := time.Parse(cfg.TimeFormat, strings.TrimSpace(s))
	if err != nil {
		return model.Clock{}, fmt.Errorf("time %q does not match %q: %w", s, cfg.TimeFormat, err)
	}
	return model.ClockOf(t), nil
}

var errNoSchedule = errors.New("no schedule yet; add tasks with `sparrow add task` and run `sparrow make`")
