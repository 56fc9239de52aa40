package ical

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~mariusor/pamokos/timetable"
)

func sampleEvents() timetable.Events {
	start := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)
	return timetable.Events{
		{
			UID:          timetable.EventUID("MATH101", start),
			Summary:      "Matematika 5 kl. - Jonas P.",
			StartTime:    start,
			EndTime:      start.Add(time.Hour),
			Location:     "204",
			LastModified: start,
		},
		{
			UID:          timetable.EventUID("PHYS201", start.Add(2*time.Hour)),
			Summary:      "Fizika 6 kl. - Jonas P.",
			StartTime:    start.Add(2 * time.Hour),
			EndTime:      start.Add(3 * time.Hour),
			LastModified: start.Add(2 * time.Hour),
		},
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	events := sampleEvents()
	payload := Encode(events)

	cal, err := ics.ParseCalendar(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 2)

	first := cal.Events()[0]
	uid := first.GetProperty(ics.ComponentPropertyUniqueId)
	require.NotNil(t, uid)
	assert.Equal(t, events[0].UID, uid.Value)

	summary := first.GetProperty(ics.ComponentPropertySummary)
	require.NotNil(t, summary)
	assert.Equal(t, events[0].Summary, summary.Value)

	location := first.GetProperty(ics.ComponentPropertyLocation)
	require.NotNil(t, location)
	assert.Equal(t, "204", location.Value)

	start, err := first.GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(events[0].StartTime))
	end, err := first.GetEndAt()
	require.NoError(t, err)
	assert.True(t, end.Equal(events[0].EndTime))
}

func TestEncodeIsDeterministic(t *testing.T) {
	events := sampleEvents()
	assert.Equal(t, Encode(events), Encode(events))
}

func TestEncodeEmpty(t *testing.T) {
	payload := Encode(timetable.Events{})

	cal, err := ics.ParseCalendar(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Empty(t, cal.Events())

	doc := string(payload)
	assert.True(t, strings.HasPrefix(doc, "BEGIN:VCALENDAR"))
	assert.Contains(t, doc, "METHOD:PUBLISH")
	assert.Contains(t, doc, "X-WR-CALNAME:"+CalendarName)
}
