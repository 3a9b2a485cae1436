package util

import (
	"time"
)

const layout = "2006-01-02"

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses the yyyy-mm-dd form used for every date stored
// in the profile document
func ParseDate(s string) (time.Time, error) {
	return time.Parse(layout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(layout)
}
