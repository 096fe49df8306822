package shared

import "time"

const dayLayout = "2006-01-02"

// ParseDate accepts RFC3339 or YYYY-MM-DD. Bare dates are read in the server's
// local zone so they line up with how attendance days are bucketed.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.ParseInLocation(dayLayout, value, time.Local)
}

// EndOfDay returns the last instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
