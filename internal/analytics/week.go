package analytics

import (
	"fmt"
	"time"
)

// OrderWeek buckets a date into one of five fixed day ranges per month
// (1-7, 8-14, 15-21, 22-28, 29-end) and labels it "YYYY-MM-DD-DD",
// e.g. "2025-03-01-07". Empty for a nil date. Calendar/ISO week numbers are
// deliberately not used.
func OrderWeek(t *time.Time) string {
	if t == nil {
		return ""
	}
	day := t.Day()
	var start, end int
	switch {
	case day <= 7:
		start, end = 1, 7
	case day <= 14:
		start, end = 8, 14
	case day <= 21:
		start, end = 15, 21
	case day <= 28:
		start, end = 22, 28
	default:
		start = 29
		// Last day of the month.
		end = time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	}
	return fmt.Sprintf("%04d-%02d-%02d-%02d", t.Year(), int(t.Month()), start, end)
}
