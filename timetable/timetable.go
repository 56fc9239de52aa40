package timetable

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one scheduled session as reported by the source system.
// Entries are immutable once fetched, validation failures make an entry
// unusable for conversion but never abort a run.
type Entry struct {
	UID       string
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Room      string
	Repeats   string
}

type Entries []Entry

func (e Entry) Check() error {
	if len(e.UID) == 0 {
		return fmt.Errorf("entry has no session identifier")
	}
	if e.StartTime.IsZero() {
		return fmt.Errorf("entry %s has no start time", e.UID)
	}
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("entry %s ends before it starts", e.UID)
	}
	return nil
}

func (e Entry) IsValid() bool {
	return e.Check() == nil
}

func (e Entry) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

func (e Entry) String() string {
	return e.GoString()
}

func (e Entry) GoString() string {
	fmtTime := e.StartTime.Format("2006-01-02 15:04 MST")
	if len(e.Room) > 0 {
		return fmt.Sprintf("<[%s] %s @ %s//%s (%s)>", e.UID, e.Title, fmtTime, e.Duration(), e.Room)
	}
	return fmt.Sprintf("<[%s] %s @ %s//%s>", e.UID, e.Title, fmtTime, e.Duration())
}

// Event is one record of the published calendar. Its UID is derived, not
// copied from the source, see EventUID.
type Event struct {
	UID          string
	Summary      string
	StartTime    time.Time
	EndTime      time.Time
	Location     string
	LastModified time.Time
}

type Events []Event

func (e Event) IsValid() bool {
	return len(e.UID) > 0 && !e.StartTime.IsZero()
}

func (e Event) Equals(other Event) bool {
	return e.UID == other.UID &&
		e.StartTime.Equal(other.StartTime) &&
		e.EndTime.Equal(other.EndTime) &&
		e.Summary == other.Summary &&
		e.Location == other.Location
}

func (e Event) String() string {
	return e.GoString()
}

func (e Event) GoString() string {
	fmtTime := e.StartTime.Format("2006-01-02 15:04 MST")
	return fmt.Sprintf("<[%s] %s @ %s//%s>", e.UID, e.Summary, fmtTime, e.EndTime.Sub(e.StartTime))
}

func (e Events) String() string {
	return e.GoString()
}

func (e Events) GoString() string {
	ss := make([]string, len(e))
	for i, ev := range e {
		ss[i] = ev.GoString()
	}
	return fmt.Sprintf("Events[%d]:\n\t%s\n", len(e), strings.Join(ss, "\n\t"))
}

func (e Events) Contains(inc Event) bool {
	for _, ev := range e {
		if ev.Equals(inc) {
			return true
		}
	}
	return false
}
