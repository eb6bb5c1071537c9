package ics

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	ical "github.com/arran4/golang-ical"

	"sparrow/internal/schedule"
)

const productID = "-//sparrow//Schedule Export//EN"

// Export renders the job and break entries of a Pomodoro schedule as an
// iCalendar document. Breaks carry the BREAK category so ParseICS reads
// them back as breaks. UIDs are stable for identical entries.
func Export(entries []schedule.Entry, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)

	for _, e := range entries {
		if e.Kind != schedule.EntryJob && e.Kind != schedule.EntryBreak {
			continue
		}
		ev := cal.AddEvent(entryUID(e))
		ev.SetDtStampTime(now)
		ev.SetStartAt(e.Start())
		ev.SetEndAt(e.End())
		ev.SetSummary(e.DisplayTitle())
		if e.Kind == schedule.EntryBreak {
			ev.AddCategory(breakCategory)
		}
	}
	return cal.Serialize()
}

func entryUID(e schedule.Entry) string {
	sum := sha256.Sum256([]byte(string(e.Kind) + "|" + e.Title + "|" + e.Start().UTC().Format(time.RFC3339)))
	return hex.EncodeToString(sum[:12]) + "@sparrow"
}
