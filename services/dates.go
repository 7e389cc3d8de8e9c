package services

import "time"

// All date-only comparisons (streak "today", challenge windows, photo streak
// scans) normalize to UTC midnight. Using a single policy here keeps streak
// break boundaries consistent for users near midnight regardless of server
// locale.

// dateOnly truncates t to midnight UTC.
func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// diffDays returns the whole calendar days between two date-only values.
func diffDays(a, b time.Time) int {
	return int(dateOnly(a).Sub(dateOnly(b)).Hours() / 24)
}
