package digi1

import (
	"fmt"
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "https://app.digi1.lt"

	loginPath     = "/login"
	dashboardPath = "/teacher/dashboard"

	// The dashboard endpoint wants its weekStart parameter in this shape.
	weekStartFormat = "2006-01-02T15:04:05.000Z"
)

// WeekStart returns the week boundary the dashboard expects for the week
// containing t: 23:00 UTC on the Sunday before that week's Monday, which is
// midnight in Vilnius once the offset is applied.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	sinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -sinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 23, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

func dashboardURL(base *url.URL, weekStart time.Time) *url.URL {
	u := *base
	u.Path = dashboardPath
	if !weekStart.IsZero() {
		q := make(url.Values)
		q.Set("weekStart", weekStart.UTC().Format(weekStartFormat))
		u.RawQuery = q.Encode()
	}
	return &u
}

func loginURL(base *url.URL) *url.URL {
	u := *base
	u.Path = loginPath
	return &u
}

func parseBase(base string) (*url.URL, error) {
	if len(base) == 0 {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %s: %w", base, err)
	}
	return u, nil
}
