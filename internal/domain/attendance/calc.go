package attendance

import (
	"math"
	"time"
)

// WorkHours returns the hours between check-in and check-out, counted in
// whole minutes, and the overtime beyond a standard day. ok is false when
// either timestamp is missing or check-out precedes check-in.
func WorkHours(checkIn, checkOut *time.Time) (work, overtime float64, ok bool) {
	if checkIn == nil || checkOut == nil || checkOut.Before(*checkIn) {
		return 0, 0, false
	}
	minutes := int64(checkOut.Sub(*checkIn) / time.Minute)
	work = round2(float64(minutes) / 60)
	overtime = round2(math.Max(0, work-StandardWorkHours))
	return work, overtime, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Day truncates t to the calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
