package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	appLog "sparrow/internal/log"
	"sparrow/internal/model"
)

// NOTE: This file provides the configuration model and full YAML-based
// load/save behavior, including first-run config creation and 0600
// permissions.

// BasicAuthConfig holds HTTP Basic Auth credentials for the daemon API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// DaemonConfig controls sparrowd.
type DaemonConfig struct {
	// Listen is the HTTP listen address for the status API. Empty disables it.
	Listen string `yaml:"listen" json:"listen"`

	// Poll is a cron spec (robfig/cron syntax, e.g. "@every 30s") for how
	// often the daemon checks the current and next schedule entries.
	Poll string `yaml:"poll" json:"poll"`

	// Notifier selects how notifications are delivered:
	//   - "log" (default): write them to the log
	//   - "command": run NotifyCommand with summary and body appended
	Notifier string `yaml:"notifier" json:"notifier"`

	// NotifyCommand is the argv prefix for the "command" notifier,
	// e.g. ["notify-send", "-a", "sparrow"].
	NotifyCommand []string `yaml:"notify_command" json:"notify_command"`

	// NotifyPerMinute caps how many notifications the command notifier
	// delivers per minute.
	NotifyPerMinute int `yaml:"notify_per_minute" json:"notify_per_minute"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA timezone schedules are built in (e.g. "Europe/Berlin").
	// Empty means the system local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// DateFormat / TimeFormat are Go layouts used to read and print dates.
	DateFormat string `yaml:"date_format" json:"date_format"`
	TimeFormat string `yaml:"time_format" json:"time_format"`

	// WorkMinutes is the length of one work period.
	WorkMinutes int `yaml:"work_minutes" json:"work_minutes"`

	// ShortBreakMinutes separates work periods inside a session.
	ShortBreakMinutes int `yaml:"short_break_minutes" json:"short_break_minutes"`

	// LongBreakMinutes closes every session.
	LongBreakMinutes int `yaml:"long_break_minutes" json:"long_break_minutes"`

	// WorkPeriodsPerSession is how many work periods make up a session.
	WorkPeriodsPerSession int `yaml:"work_periods_per_session" json:"work_periods_per_session"`

	// AllowRepeats lets the same task continue straight across a long break
	// into the next session.
	AllowRepeats bool `yaml:"allow_repeats" json:"allow_repeats"`

	// SkipDays are weekdays the Ivy-Lee method never schedules on.
	SkipDays []model.Weekday `yaml:"skip_days" json:"skip_days"`

	// IvyLeeTasksPerDay is the daily task quota of the Ivy-Lee method.
	IvyLeeTasksPerDay int `yaml:"ivy_lee_tasks_per_day" json:"ivy_lee_tasks_per_day"`

	// DefaultMethod is used by `sparrow make` without --method.
	DefaultMethod string `yaml:"default_method" json:"default_method"`

	// ConsiderationPeriodDays is the default for newly added tasks.
	ConsiderationPeriodDays int `yaml:"consideration_period_days" json:"consideration_period_days"`

	// NextEventWarningMinutes is how long before the next entry the daemon
	// warns about it.
	NextEventWarningMinutes int `yaml:"next_event_warning_minutes" json:"next_event_warning_minutes"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	Daemon DaemonConfig `yaml:"daemon" json:"daemon"`
}

const (
	defaultDateFormat = "2006-01-02"
	defaultTimeFormat = "15:04"
	defaultPoll       = "@every 30s"
	defaultMethod     = "pomodoro"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:                "",
		DateFormat:              defaultDateFormat,
		TimeFormat:              defaultTimeFormat,
		WorkMinutes:             25,
		ShortBreakMinutes:       5,
		LongBreakMinutes:        15,
		WorkPeriodsPerSession:   4,
		AllowRepeats:            false,
		SkipDays:                []model.Weekday{},
		IvyLeeTasksPerDay:       6,
		DefaultMethod:           defaultMethod,
		ConsiderationPeriodDays: model.DefaultConsiderationDays,
		NextEventWarningMinutes: 5,
		LogLevel:                "info",
		Daemon: DaemonConfig{
			Listen:          "",
			Poll:            defaultPoll,
			Notifier:        "log",
			NotifyCommand:   []string{"notify-send", "-a", "sparrow"},
			NotifyPerMinute: 6,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs (e.g., older versions) still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.DateFormat == "" {
		c.DateFormat = def.DateFormat
	}
	if c.TimeFormat == "" {
		c.TimeFormat = def.TimeFormat
	}
	// Work and session lengths are divisors in the packers.
	if c.WorkMinutes <= 0 {
		c.WorkMinutes = def.WorkMinutes
	}
	if c.ShortBreakMinutes < 0 {
		c.ShortBreakMinutes = def.ShortBreakMinutes
	}
	if c.LongBreakMinutes < 0 {
		c.LongBreakMinutes = def.LongBreakMinutes
	}
	if c.WorkPeriodsPerSession <= 0 {
		c.WorkPeriodsPerSession = def.WorkPeriodsPerSession
	}
	if c.SkipDays == nil {
		c.SkipDays = []model.Weekday{}
	}
	if c.IvyLeeTasksPerDay <= 0 {
		c.IvyLeeTasksPerDay = def.IvyLeeTasksPerDay
	}
	switch c.DefaultMethod {
	case "pomodoro", "ivy-lee":
		// ok
	default:
		c.DefaultMethod = defaultMethod
	}
	if c.ConsiderationPeriodDays < 0 {
		c.ConsiderationPeriodDays = def.ConsiderationPeriodDays
	}
	if c.NextEventWarningMinutes < 0 {
		c.NextEventWarningMinutes = def.NextEventWarningMinutes
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}

	// An unparsable poll spec would stop the daemon from ever ticking.
	if _, err := cron.ParseStandard(c.Daemon.Poll); c.Daemon.Poll == "" || err != nil {
		c.Daemon.Poll = defaultPoll
	}
	switch c.Daemon.Notifier {
	case "log", "command":
		// ok
	default:
		c.Daemon.Notifier = "log"
	}
	if len(c.Daemon.NotifyCommand) == 0 {
		c.Daemon.NotifyCommand = def.Daemon.NotifyCommand
	}
	if c.Daemon.NotifyPerMinute <= 0 {
		c.Daemon.NotifyPerMinute = def.Daemon.NotifyPerMinute
	}
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	return resolveLocationOrLocal(c.Timezone)
}

// SessionMinutes is the length of one full work session including its
// closing long break.
func (c *Config) SessionMinutes() int {
	n := c.WorkPeriodsPerSession
	return n*c.WorkMinutes + (n-1)*c.ShortBreakMinutes + c.LongBreakMinutes
}

// DefaultPath returns ~/.config/sparrow/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sparrow.yaml"
	}
	return filepath.Join(dir, "sparrow", "config.yaml")
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// WriteFileAtomic writes data next to path and renames it into place.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Writes to a temp file in the same directory, syncs, closes.
//   - Ensures final file permissions are 0600.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".sparrow-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}
