package ical

import (
	ics "github.com/arran4/golang-ical"

	"git.sr.ht/~mariusor/pamokos/timetable"
)

const (
	ProdID       = "-//Digi1 Lessons//EN"
	CalendarName = "Digi1 Lessons"
)

// Encode renders the events as an iCalendar document. The output is a pure
// function of the input, an unchanged snapshot serializes to identical bytes
// so subscribing clients see updates, never duplicates.
func Encode(events timetable.Events) []byte {
	cal := ics.NewCalendar()
	cal.SetProductId(ProdID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(CalendarName)

	for _, ev := range events {
		e := cal.AddEvent(ev.UID)
		e.SetDtStampTime(ev.LastModified.UTC())
		e.SetSummary(ev.Summary)
		e.SetStartAt(ev.StartTime.UTC())
		e.SetEndAt(ev.EndTime.UTC())
		if len(ev.Location) > 0 {
			e.SetLocation(ev.Location)
		}
	}

	return []byte(cal.Serialize())
}
