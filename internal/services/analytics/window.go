package analytics

import (
	"fmt"
	"strings"
	"time"

	"trackpay-backend/internal/models"
)

// Window selects the calendar period around "now".
type Window string

const (
	WindowAll   Window = "all"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

func ParseWindow(s string) (Window, error) {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case "", WindowAll:
		return WindowAll, nil
	case WindowWeek, WindowMonth, WindowYear:
		return w, nil
	}
	return "", fmt.Errorf("unknown time window %q", s)
}

// Bounds returns the first and last calendar date of the window containing
// now. Weeks start on Monday. ok is false for WindowAll.
func (w Window) Bounds(now time.Time) (start, end time.Time, ok bool) {
	today := models.DateOf(now)
	switch w {
	case WindowWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6), true
	case WindowMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1), true
	case WindowYear:
		start = time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, time.Time{}, false
}

// Contains reports whether date falls in the window, both ends inclusive.
func (w Window) Contains(date, now time.Time) bool {
	start, end, ok := w.Bounds(now)
	if !ok {
		return true
	}
	d := models.DateOf(date)
	return !d.Before(start) && !d.After(end)
}
