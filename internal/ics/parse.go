package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "sparrow/internal/log"
	"sparrow/internal/model"
	"sparrow/internal/recur"
	"sparrow/internal/span"
)

// breakCategory marks a VEVENT as a planned break rather than a commitment.
const breakCategory = "BREAK"

// ParseICS reads the VEVENTs of an iCalendar payload as calendar events.
//
//   - Timed events keep their DTSTART instant and DTEND - DTSTART length.
//   - All-day events are skipped; they would block whole days.
//   - RRULE FREQ=DAILY and FREQ=WEEKLY (with BYDAY) map onto Repeat. Other
//     rules, intervals above one and UNTIL/COUNT limits cannot be expressed
//     and the event is imported with the closest supported policy.
//   - CATEGORIES containing BREAK yields a break.
//
// Events that cannot be read are logged and skipped.
func ParseICS(body []byte) ([]model.CalendarEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	events := make([]model.CalendarEvent, 0)
	for _, ve := range cal.Events() {
		ev, ok, perr := parseVEvent(ve)
		if perr != nil {
			appLog.Error("ics vevent parse failed", perr, "uid", propValue(ve, ical.ComponentPropertyUniqueId))
			continue
		}
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (model.CalendarEvent, bool, error) {
	var out model.CalendarEvent

	if isAllDay(ve) {
		appLog.Debug("ics skipping all-day event", "summary", propValue(ve, ical.ComponentPropertySummary))
		return out, false, nil
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, false, fmt.Errorf("DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return out, false, fmt.Errorf("DTEND: %w", err)
	}
	if !end.After(start) {
		return out, false, fmt.Errorf("event ends at %s, not after its start %s", end, start)
	}

	out.Name = propValue(ve, ical.ComponentPropertySummary)
	out.Span = span.Between(start, end)
	out.Kind = model.KindEvent
	if hasCategory(ve, breakCategory) {
		out.Kind = model.KindBreak
	}

	out.Repeat = model.NoRepeat()
	if raw := propValue(ve, ical.ComponentPropertyRrule); raw != "" {
		out.Repeat = repeatFromRRule(raw, out.Name)
	}
	return out, true, nil
}

// repeatFromRRule maps an RRULE value onto the supported repeat policies.
func repeatFromRRule(raw, name string) model.Repeat {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		appLog.Warn("ics unreadable RRULE; importing single occurrence", "event", name, "rrule", raw, "err", err)
		return model.NoRepeat()
	}
	if opt.Interval > 1 || opt.Count > 0 || !opt.Until.IsZero() {
		appLog.Warn("ics RRULE limits are not supported; repeating without them", "event", name, "rrule", raw)
	}

	switch opt.Freq {
	case rrule.DAILY:
		return model.RepeatDaily()
	case rrule.WEEKLY:
		days := make([]model.Weekday, 0, len(opt.Byweekday))
		for _, wd := range opt.Byweekday {
			days = append(days, recur.FromRRuleWeekday(wd))
		}
		return model.RepeatWeekly(days...)
	default:
		appLog.Warn("ics RRULE frequency not supported; importing single occurrence", "event", name, "rrule", raw)
		return model.NoRepeat()
	}
}

func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func hasCategory(ve *ical.VEvent, want string) bool {
	for _, p := range ve.GetProperties(ical.ComponentPropertyCategories) {
		for _, c := range strings.Split(p.Value, ",") {
			if strings.EqualFold(strings.TrimSpace(c), want) {
				return true
			}
		}
	}
	return false
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}
