package daemon

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"golang.org/x/time/rate"

	appLog "sparrow/internal/log"
)

// Notifier delivers a desktop notification.
type Notifier interface {
	Notify(ctx context.Context, summary, body string) error
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, summary, body string) error {
	appLog.Info(summary, "body", body)
	return nil
}

// CommandNotifier runs an external program such as notify-send with the
// summary and body appended to its argv. Deliveries beyond the rate limit
// are dropped with a warning.
type CommandNotifier struct {
	argv    []string
	limiter *rate.Limiter
	timeout time.Duration
}

func NewCommandNotifier(argv []string, perMinute int) (*CommandNotifier, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("notify command is empty")
	}
	if perMinute <= 0 {
		perMinute = 1
	}
	return &CommandNotifier{
		argv:    argv,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		timeout: 10 * time.Second,
	}, nil
}

func (n *CommandNotifier) Notify(ctx context.Context, summary, body string) error {
	if !n.limiter.Allow() {
		appLog.Warn("notification dropped by rate limit", "summary", summary)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	args := append(append([]string{}, n.argv[1:]...), summary, body)
	out, err := exec.CommandContext(ctx, n.argv[0], args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("run %s: %w (output: %s)", n.argv[0], err, out)
	}
	return nil
}
