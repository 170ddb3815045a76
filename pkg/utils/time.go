package utils

import (
	"fmt"
	"time"
)

// DateKeyLayout is the canonical date key format used by schedules,
// read events and streak bookkeeping.
const DateKeyLayout = "2006-01-02"

// DateKey formats a time as a calendar date key (local date of t)
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// TodayKey returns the date key for the current day
func TodayKey() string {
	return DateKey(time.Now())
}

// ParseDateKey parses a YYYY-MM-DD string
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// IsConsecutiveDay reports whether next is exactly the day after prev.
// Both arguments are date keys; malformed keys are never consecutive.
func IsConsecutiveDay(prev, next string) bool {
	p, err := ParseDateKey(prev)
	if err != nil {
		return false
	}
	n, err := ParseDateKey(next)
	if err != nil {
		return false
	}
	return p.AddDate(0, 0, 1).Equal(n)
}

// UntilMidnight returns the duration until the next local midnight.
// Used as the TTL for per-date cache entries.
func UntilMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}

// TimeAgo returns human-readable time ago string
func TimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	}
	if duration < time.Hour {
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	}
	if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := int(duration.Hours() / 24)
	if days == 1 {
		return "yesterday"
	}
	if days < 7 {
		return fmt.Sprintf("%d days ago", days)
	}

	weeks := days / 7
	if weeks == 1 {
		return "1 week ago"
	}
	return fmt.Sprintf("%d weeks ago", weeks)
}
