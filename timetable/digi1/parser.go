package digi1

import (
	"encoding/json"
	"fmt"
	"time"

	"git.sr.ht/~mariusor/pamokos/timetable"
)

// Lessons come back without an explicit end, the platform slots are one hour.
const lessonDuration = time.Hour

// published_at is a naive local timestamp in the school's zone.
const publishedAtFormat = "2006-01-02 15:04:05"

var vilnius = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Vilnius")
	if err != nil {
		return time.UTC
	}
	return loc
}()

type dashboardPage struct {
	Props *struct {
		Timetable *struct {
			Table [][]lessonRow `json:"table"`
		} `json:"timetable"`
	} `json:"props"`
}

type lessonRow struct {
	UUID        string `json:"uuid"`
	PublishedAt string `json:"published_at"`
	User        *struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"user"`
	Subject *struct {
		Name string `json:"name"`
	} `json:"subject"`
	Grade *struct {
		Name string `json:"name"`
	} `json:"grade"`
	Classroom *struct {
		Name string `json:"name"`
	} `json:"classroom"`
}

func parseDashboard(data []byte, errFn LoggerFn) (timetable.Entries, error) {
	page := dashboardPage{}
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("unable to decode dashboard payload: %w", err)
	}
	if page.Props == nil {
		return nil, fmt.Errorf("dashboard payload is missing props")
	}
	if page.Props.Timetable == nil {
		return nil, fmt.Errorf("dashboard payload is missing the timetable")
	}
	if page.Props.Timetable.Table == nil {
		return nil, fmt.Errorf("dashboard payload is missing the timetable table")
	}

	entries := make(timetable.Entries, 0)
	for _, day := range page.Props.Timetable.Table {
		for _, row := range day {
			// Unpublished or placeholder rows have no uuid or timestamp.
			if len(row.UUID) == 0 || len(row.PublishedAt) == 0 {
				continue
			}
			entry, err := row.entry()
			if err != nil {
				errFn("Skipping row %s: %s", row.UUID, err)
				continue
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (r lessonRow) entry() (timetable.Entry, error) {
	start, err := time.ParseInLocation(publishedAtFormat, r.PublishedAt, vilnius)
	if err != nil {
		return timetable.Entry{}, fmt.Errorf("unparsable published timestamp %q: %w", r.PublishedAt, err)
	}
	start = start.UTC()

	e := timetable.Entry{
		UID:       r.UUID,
		Title:     r.title(),
		StartTime: start,
		EndTime:   start.Add(lessonDuration),
	}
	if r.Classroom != nil {
		e.Room = r.Classroom.Name
	}
	return e, nil
}

func (r lessonRow) title() string {
	subject := "<unknown>"
	if r.Subject != nil && len(r.Subject.Name) > 0 {
		subject = r.Subject.Name
	}
	grade := "? kl."
	if r.Grade != nil && len(r.Grade.Name) > 0 {
		grade = r.Grade.Name
	}
	first, initial := "", ""
	if r.User != nil {
		first = r.User.FirstName
		if len(r.User.LastName) > 0 {
			initial = string([]rune(r.User.LastName)[0]) + "."
		}
	}
	return fmt.Sprintf("%s %s - %s %s", subject, grade, first, initial)
}
