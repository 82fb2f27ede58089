package sqlite

import (
	"fmt"
	"time"
)

// timeLayout is fixed-width UTC so stored timestamps compare correctly both
// lexicographically (MAX over the column) and chronologically.
const timeLayout = "2006-01-02 15:04:05.000000000"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
