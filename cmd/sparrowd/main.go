// Command sparrowd follows the stored Pomodoro schedule and sends a
// notification when each entry starts and shortly before the next one.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"sparrow/internal/config"
	"sparrow/internal/daemon"
	appLog "sparrow/internal/log"
	"sparrow/internal/schedule"
	"sparrow/internal/store"
	"sparrow/internal/web"
)

type flagConfig struct {
	configPath string
	dataPath   string
	listen     string
}

func main() {
	flags := parseFlags(os.Args[1:])

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))

	// --listen overrides the config file.
	if flags.listen != "" {
		cfg.Daemon.Listen = flags.listen
	}

	appLog.Info("effective config",
		"data_file", flags.dataPath,
		"timezone", cfg.Location().String(),
		"poll", cfg.Daemon.Poll,
		"notifier", cfg.Daemon.Notifier,
		"listen", cfg.Daemon.Listen,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flags.dataPath); err != nil {
		appLog.Error("sparrowd stopped", err)
		os.Exit(1)
	}
	appLog.Info("sparrowd exiting")
}

func run(ctx context.Context, cfg *config.Config, dataPath string) error {
	load := loader(cfg, dataPath, time.Now)

	entries, err := load()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		appLog.Warn("no pomodoro schedule found; try `sparrow add task` and `sparrow make`")
	}

	notifier, err := daemon.NewNotifier(cfg.Daemon)
	if err != nil {
		return err
	}

	snap := daemon.NewSnapshot(entries)
	d := daemon.New(snap, notifier, cfg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	webErr := make(chan error, 1)
	if cfg.Daemon.Listen != "" {
		srv := web.NewServer(cfg, snap, time.Now)
		go func() {
			err := srv.ListenAndServe(ctx)
			if err != nil {
				// Stop the daemon when the API fails.
				cancel()
			}
			webErr <- err
		}()
	} else {
		webErr <- nil
	}

	runErr := d.Run(ctx, cfg.Daemon.Poll, dataPath, load, time.Now)
	cancel()
	return errors.Join(runErr, <-webErr)
}

// loader reads the data file and returns its Pomodoro entries. When the file
// holds no Pomodoro schedule, one is made from the stored tasks without
// being saved.
func loader(cfg *config.Config, dataPath string, now func() time.Time) daemon.Loader {
	return func() ([]schedule.Entry, error) {
		ud, err := store.Load(dataPath)
		if err != nil {
			return nil, err
		}
		if entries, ok := ud.PomodoroEntries(); ok {
			return entries, nil
		}

		p, warnings, err := schedule.MakePomodoro(ud.Inputs(cfg, now()))
		if errors.Is(err, schedule.ErrNoTasks) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			appLog.Warn("unscheduled work", "task", w.Name, "minutes", w.Minutes)
		}
		return p.Entries, nil
	}
}

func parseFlags(args []string) flagConfig {
	var cfg flagConfig

	fs := pflag.NewFlagSet("sparrowd", pflag.ExitOnError)
	fs.StringVarP(&cfg.dataPath, "file", "f", store.DefaultPath(), "Data file")
	fs.StringVar(&cfg.configPath, "config", config.DefaultPath(), "Path to config file")
	fs.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	_ = fs.Parse(args)

	return cfg
}
