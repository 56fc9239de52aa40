package digi1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	want := time.Date(2024, 3, 3, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
	}{
		{"wednesday", time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)},
		{"monday early", time.Date(2024, 3, 4, 0, 30, 0, 0, time.UTC)},
		{"sunday", time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, WeekStart(tt.in))
		})
	}
}

func TestWeekStartIsStable(t *testing.T) {
	in := time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, WeekStart(in), WeekStart(WeekStart(in).Add(25*time.Hour)))
}

func TestDashboardURL(t *testing.T) {
	base, err := parseBase("https://app.example.lt")
	require.NoError(t, err)

	u := dashboardURL(base, time.Date(2024, 3, 3, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "/teacher/dashboard", u.Path)
	assert.Equal(t, "2024-03-03T23:00:00.000Z", u.Query().Get("weekStart"))

	u = dashboardURL(base, time.Time{})
	assert.Empty(t, u.RawQuery)
}

func TestParseBaseDefaults(t *testing.T) {
	u, err := parseBase("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, u.String())
}
