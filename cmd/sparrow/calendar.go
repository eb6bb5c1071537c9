package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sparrow/internal/config"
	"sparrow/internal/ics"
	"sparrow/internal/store"
)

func (a *app) newImportCmd() *cobra.Command {
	var cacheDir string
	cmd := &cobra.Command{
		Use:   "import <file|url>",
		Short: "Import events from an iCalendar file or feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readCalendar(cmd.Context(), args[0], cacheDir)
			if err != nil {
				return err
			}
			events, err := ics.ParseICS(body)
			if err != nil {
				return err
			}
			return a.update(func(_ *config.Config, ud *store.UserData) error {
				for _, ev := range events {
					if err := ud.AddEvent(ev); err != nil {
						return err
					}
				}
				a.printf("Imported %d event(s)\n", len(events))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory for calendar feeds")
	return cmd
}

func readCalendar(ctx context.Context, src, cacheDir string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if ctx == nil {
			ctx = context.Background()
		}
		res, err := ics.NewFetcher(cacheDir).FetchOne(ctx, src)
		if err != nil {
			return nil, err
		}
		return res.Body, nil
	}
	return os.ReadFile(src)
}

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the Pomodoro schedule as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, ud, err := a.load()
			if err != nil {
				return err
			}
			entries, ok := ud.PomodoroEntries()
			if !ok {
				return errNoSchedule
			}
			if err := config.WriteFileAtomic(args[0], []byte(ics.Export(entries, a.now()))); err != nil {
				return err
			}
			a.printf("Exported schedule to %s\n", args[0])
			return nil
		},
	}
}
