package view

import (
	"fmt"
	"time"
)

// DueLabel renders a due date relative to now: due today, due tomorrow,
// N days overdue, N days left within a week, otherwise the literal calendar
// date. Recomputed per render, never stored.
func DueLabel(due time.Time, now time.Time) string {
	offset := dayOffset(due, now)
	switch {
	case offset == 0:
		return "due today"
	case offset == 1:
		return "due tomorrow"
	case offset < 0:
		return fmt.Sprintf("%d days overdue", -offset)
	case offset <= 7:
		return fmt.Sprintf("%d days left", offset)
	default:
		return due.Format("2006-01-02")
	}
}

// dayOffset counts whole calendar days from now to due.
func dayOffset(due, now time.Time) int {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := due.Date()
	start := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
