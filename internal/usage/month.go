package usage

import "time"

// MonthKey returns the calendar-month bucket for t in YYYY-MM format, month
// zero-padded to two digits.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
