package localdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNeedsRegeneration(t *testing.T) {
	tests := []struct {
		name  string
		last  string
		today string
		want  bool
	}{
		{"no previous record", "", "2026-03-10", true},
		{"same day", "2026-03-10", "2026-03-10", false},
		{"previous day", "2026-03-09", "2026-03-10", true},
		{"future date counts as different", "2026-03-11", "2026-03-10", true},
		{"month boundary", "2026-02-28", "2026-03-01", true},
		{"year boundary", "2025-12-31", "2026-01-01", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsRegeneration(tt.last, tt.today))
		})
	}
}

func TestResolveAt_DateAdvancesAheadOfUTC(t *testing.T) {
	// 23:30 UTC on March 10 is already March 11 in Tokyo
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)

	date, timestamp := resolveAt("Asia/Tokyo", now)
	assert.Equal(t, "2026-03-11", date)
	assert.Equal(t, "2026-03-11T08:30:00+09:00", timestamp)

	utcDate, _ := resolveAt("UTC", now)
	assert.Equal(t, "2026-03-10", utcDate)
}

func TestResolveAt_DateBehindUTC(t *testing.T) {
	// 02:00 UTC on March 11 is still March 10 in Los Angeles (PDT, -07:00)
	now := time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC)

	date, timestamp := resolveAt("America/Los_Angeles", now)
	assert.Equal(t, "2026-03-10", date)
	assert.Equal(t, "2026-03-10T19:00:00-07:00", timestamp)
}

func TestResolveAt_UnrecognizedZoneFallsBackToUTC(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, tz := range []string{"Not/AZone", "garbage", "Europe/Atlantis"} {
		date, timestamp := resolveAt(tz, now)
		assert.Equal(t, "2026-03-10", date, "zone %q", tz)
		assert.Equal(t, "2026-03-10T12:00:00+00:00", timestamp, "zone %q", tz)
	}
}

func TestResolveAt_EmptyZoneMeansUTC(t *testing.T) {
	now := time.Date(2026, 7, 1, 18, 45, 30, 0, time.UTC)

	date, timestamp := resolveAt("", now)
	assert.Equal(t, "2026-07-01", date)
	assert.Equal(t, "2026-07-01T18:45:30+00:00", timestamp)
}

func TestResolveAt_HalfHourOffset(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	_, timestamp := resolveAt("Asia/Kolkata", now)
	assert.Equal(t, "2026-03-10T17:30:00+05:30", timestamp)
}

func TestResolve_ReturnsTodaySomewhere(t *testing.T) {
	date, timestamp := Resolve("UTC")
	assert.Len(t, date, 10)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}[+-]\d{2}:\d{2}$`, timestamp)
	assert.Equal(t, date, timestamp[:10])
}
