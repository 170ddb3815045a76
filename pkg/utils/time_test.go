package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	ts := time.Date(2026, 9, 1, 23, 45, 0, 0, time.Local)
	assert.Equal(t, "2026-09-01", DateKey(ts))
	assert.Equal(t, DateKey(time.Now()), TodayKey())
}

func TestParseDateKey(t *testing.T) {
	ts, err := ParseDateKey("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, time.September, ts.Month())
	assert.Equal(t, 1, ts.Day())

	_, err = ParseDateKey("01-09-2026")
	assert.Error(t, err)
	_, err = ParseDateKey("2026-13-40")
	assert.Error(t, err)
	_, err = ParseDateKey("")
	assert.Error(t, err)
}

func TestIsConsecutiveDay(t *testing.T) {
	assert.True(t, IsConsecutiveDay("2026-08-31", "2026-09-01"))
	assert.True(t, IsConsecutiveDay("2026-12-31", "2027-01-01"))
	// 2028 is a leap year
	assert.True(t, IsConsecutiveDay("2028-02-28", "2028-02-29"))
	assert.True(t, IsConsecutiveDay("2027-02-28", "2027-03-01"))

	assert.False(t, IsConsecutiveDay("2026-09-01", "2026-09-01"))
	assert.False(t, IsConsecutiveDay("2026-09-01", "2026-08-31"))
	assert.False(t, IsConsecutiveDay("2026-08-30", "2026-09-01"))
	assert.False(t, IsConsecutiveDay("", "2026-09-01"))
	assert.False(t, IsConsecutiveDay("2026-08-31", "garbage"))
}

func TestUntilMidnight(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 0, 0, 0, time.Local)
	assert.Equal(t, time.Hour, UntilMidnight(now))

	justAfter := time.Date(2026, 9, 1, 0, 0, 1, 0, time.Local)
	d := UntilMidnight(justAfter)
	assert.Greater(t, d, 23*time.Hour)
	assert.LessOrEqual(t, d, 24*time.Hour)
}

func TestGenerateIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID("read")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Contains(t, GenerateHadithID(), "hadith-")
	assert.Contains(t, GenerateUnlockID(), "unlock-")
}
