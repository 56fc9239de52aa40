package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryCheck(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		entry Entry
		ok    bool
	}{
		{
			name:  "valid",
			entry: Entry{UID: "MATH101", StartTime: start, EndTime: start.Add(time.Hour)},
			ok:    true,
		},
		{
			name:  "missing identifier",
			entry: Entry{StartTime: start, EndTime: start.Add(time.Hour)},
		},
		{
			name:  "no start",
			entry: Entry{UID: "MATH101", EndTime: start},
		},
		{
			name:  "start equals end",
			entry: Entry{UID: "MATH101", StartTime: start, EndTime: start},
		},
		{
			name:  "end before start",
			entry: Entry{UID: "MATH101", StartTime: start.Add(time.Hour), EndTime: start},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Check()
			if tt.ok {
				assert.NoError(t, err)
				assert.True(t, tt.entry.IsValid())
			} else {
				assert.Error(t, err)
				assert.False(t, tt.entry.IsValid())
			}
		})
	}
}

func TestEventEquals(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	ev := Event{UID: "a@pamokos", Summary: "Calculus", StartTime: start, EndTime: start.Add(time.Hour)}

	same := ev
	same.StartTime = start.In(time.FixedZone("EET", 2*3600))
	same.EndTime = ev.EndTime.In(time.FixedZone("EET", 2*3600))
	assert.True(t, ev.Equals(same), "instants should compare regardless of wall zone")

	moved := ev
	moved.StartTime = start.Add(time.Hour)
	assert.False(t, ev.Equals(moved))
}

func TestEventsContains(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	ev := Event{UID: "a@pamokos", StartTime: start, EndTime: start.Add(time.Hour)}

	evs := Events{ev}
	assert.True(t, evs.Contains(ev))
	assert.False(t, evs.Contains(Event{UID: "b@pamokos", StartTime: start, EndTime: start.Add(time.Hour)}))
}
