package recur

import (
	"slices"
	"time"

	"github.com/teambition/rrule-go"

	"sparrow/internal/model"
	"sparrow/internal/span"
)

const (
	defaultMaxOccurrences = 5000
)

// Result wraps the expanded occurrences and whether the safety cap was hit.
type Result struct {
	Spans []span.TimeSpan
	// Truncated is set when expansion stopped at the occurrence cap before
	// reaching the horizon.
	Truncated bool
}

// Expand turns one authored span plus its repeat policy into the concrete
// occurrences whose start is strictly before horizon. The anchor itself is
// always the first occurrence. Daily steps one calendar day and Weekly seven,
// keeping the anchor's wall-clock time. A Weekly repeat with weekdays runs
// one seven-day series per listed weekday, each starting on that weekday's
// first date on or after the anchor. Never yields at most the anchor itself.
//
// The horizon is required: a repeating anchor is otherwise unbounded.
func Expand(anchor span.TimeSpan, repeat model.Repeat, horizon time.Time) Result {
	return ExpandCapped(anchor, repeat, horizon, defaultMaxOccurrences)
}

// ExpandCapped is Expand with an explicit occurrence cap. A cap <= 0 uses
// the default.
func ExpandCapped(anchor span.TimeSpan, repeat model.Repeat, horizon time.Time, maxOccurrences int) Result {
	var result Result
	if maxOccurrences <= 0 {
		maxOccurrences = defaultMaxOccurrences
	}
	if !anchor.Start.Before(horizon) {
		return result
	}

	starts := []time.Time{anchor.Start}
	for _, dtstart := range seriesStarts(anchor.Start, repeat) {
		r, err := rrule.NewRRule(ruleOption(dtstart, repeat.Kind))
		if err != nil {
			// Only reachable with an invalid option set; keep the anchor.
			continue
		}
		starts = append(starts, r.Between(dtstart, horizon, true)...)
	}
	slices.SortFunc(starts, time.Time.Compare)
	starts = slices.CompactFunc(starts, time.Time.Equal)

	out := make([]span.TimeSpan, 0, min(len(starts), maxOccurrences))
	for _, start := range starts {
		if !start.Before(horizon) {
			break
		}
		if len(out) == maxOccurrences {
			result.Truncated = true
			break
		}
		out = append(out, span.New(start, anchor.Minutes))
	}
	result.Spans = out
	return result
}

// seriesStarts returns the first occurrence of every series repeat produces.
// Never has none beyond the anchor.
func seriesStarts(anchor time.Time, repeat model.Repeat) []time.Time {
	switch repeat.Kind {
	case model.Daily:
		return []time.Time{anchor}
	case model.Weekly:
		if len(repeat.Weekdays) == 0 {
			return []time.Time{anchor}
		}
		out := make([]time.Time, 0, len(repeat.Weekdays))
		for _, wd := range repeat.Weekdays {
			offset := (int(wd.Std()) - int(anchor.Weekday()) + 7) % 7
			y, m, d := anchor.Date()
			out = append(out, time.Date(y, m, d+offset,
				anchor.Hour(), anchor.Minute(), anchor.Second(), anchor.Nanosecond(), anchor.Location()))
		}
		return out
	default:
		return nil
	}
}

// ruleOption builds one series starting at dtstart. Weekly series recur on
// dtstart's own weekday only.
func ruleOption(dtstart time.Time, kind model.RepeatKind) rrule.ROption {
	opt := rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: dtstart,
	}
	if kind == model.Weekly {
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{toRRuleWeekday(dtstart.Weekday())}
	}
	return opt
}

func toRRuleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}

// FromRRuleWeekday maps an rrule weekday back onto model.Weekday.
func FromRRuleWeekday(wd rrule.Weekday) model.Weekday {
	// rrule numbers Monday as 0.
	return model.Weekday((wd.Day() + 1) % 7)
}
