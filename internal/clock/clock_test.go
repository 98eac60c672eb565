package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTodayRangeUsesBusinessTimezone(t *testing.T) {
	// 20:00 UTC on Mar 1 is already Mar 2 in India (UTC+05:30).
	fake := NewFakeClock(time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC))
	day := NewBusinessDayIn(fake, time.FixedZone("IST", 5*3600+1800))

	start, end := day.TodayRange()
	require.Equal(t, time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, 3, 2, 18, 30, 0, 0, time.UTC), end)
}

func TestTodayRangeUTC(t *testing.T) {
	fake := NewFakeClock(time.Date(2025, 3, 1, 9, 15, 0, 0, time.UTC))
	day := NewBusinessDayIn(fake, time.UTC)

	start, end := day.TodayRange()
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestLoadLocationFallsBack(t *testing.T) {
	loc := LoadLocation("Not/AZone")
	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	require.Equal(t, 5*3600+1800, offset)
}

func TestFakeClockAdvance(t *testing.T) {
	fake := NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	fake.Advance(36 * time.Hour)
	require.Equal(t, time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC), fake.Now())
}
