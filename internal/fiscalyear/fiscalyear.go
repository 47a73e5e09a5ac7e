package fiscalyear

import (
	"fmt"
	"time"
)

// Start returns the starting calendar year of the fiscal bucket the
// given date falls in. The fiscal year runs April 1 to March 31, so
// January–March belong to the previous calendar year's bucket.
func Start(t time.Time) int {
	if int(t.Month()) >= 4 {
		return t.Year()
	}
	return t.Year() - 1
}

// Label renders the display label for a fiscal year start, e.g.
// 2025 -> "2025-26". The end year wraps at the century: 1999 -> "1999-00".
func Label(start int) string {
	end := (start + 1) % 100
	return fmt.Sprintf("%d-%02d", start, end)
}
