package storage

import (
	"time"

	"git.sr.ht/~mariusor/pamokos/timetable"
)

type DateCursor struct {
	T time.Time
	D time.Duration
}

func Cursor(st time.Time, d time.Duration) DateCursor {
	return DateCursor{
		T: st,
		D: d,
	}
}

type Saver interface {
	SaveEvents(timetable.Events) error
	SaveEvent(timetable.Event) error
}

type Loader interface {
	LoadEvents(DateCursor) (timetable.Events, error)
	LoadEvent(time.Time, string) timetable.Event
}
