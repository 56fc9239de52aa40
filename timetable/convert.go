package timetable

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"
)

// Window bounds recurrence expansion. Zero values fall back to a four week
// horizon starting at the recurring entry itself.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

const (
	defaultExpandHorizon = 28 * 24 * time.Hour
	maxOccurrences       = 500
)

// EventUID derives the calendar identifier for a single session occurrence.
// The identifier is a pure function of the source session identifier and the
// UTC start timestamp, so repeated conversions of the same snapshot assign
// the same identifiers and a rescheduled session shows up as a new event.
func EventUID(sessionID string, start time.Time) string {
	sum := sha1.Sum([]byte(sessionID + "/" + start.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(sum[:]) + "@pamokos"
}

// Convert turns a snapshot of source entries into calendar events. Entries
// failing validation are returned as errors alongside the events that did
// convert, duplicated (identifier, start) pairs collapse to one event so
// overlapping fetch windows don't multiply output.
func Convert(entries Entries, w Window) (Events, []error) {
	skipped := make([]error, 0)
	seen := make(map[string]struct{}, len(entries))
	events := make(Events, 0, len(entries))

	for _, entry := range entries {
		if err := entry.Check(); err != nil {
			skipped = append(skipped, err)
			continue
		}
		occurrences, err := expand(entry, w)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		for _, start := range occurrences {
			uid := EventUID(entry.UID, start)
			if _, ok := seen[uid]; ok {
				continue
			}
			seen[uid] = struct{}{}
			events = append(events, Event{
				UID:          uid,
				Summary:      entry.Title,
				StartTime:    start,
				EndTime:      start.Add(entry.Duration()),
				Location:     entry.Room,
				LastModified: start,
			})
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].UID < events[j].UID
		}
		return events[i].StartTime.Before(events[j].StartTime)
	})

	return events, skipped
}

func expand(entry Entry, w Window) ([]time.Time, error) {
	if len(entry.Repeats) == 0 {
		return []time.Time{entry.StartTime}, nil
	}

	r, err := rrule.StrToRRule(entry.Repeats)
	if err != nil {
		return nil, fmt.Errorf("entry %s has an invalid recurrence rule %q: %w", entry.UID, entry.Repeats, err)
	}
	r.DTStart(entry.StartTime)

	var set rrule.Set
	set.RRule(r)

	start, end := w.Start, w.End
	if w.IsZero() {
		start = entry.StartTime
		end = entry.StartTime.Add(defaultExpandHorizon)
	}

	occurrences := set.Between(start.In(entry.StartTime.Location()), end.In(entry.StartTime.Location()), true)
	if len(occurrences) > maxOccurrences {
		occurrences = occurrences[:maxOccurrences]
	}
	return occurrences, nil
}
