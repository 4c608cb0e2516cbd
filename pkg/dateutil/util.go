package dateutil

import "time"

func BeginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1)
}

// NextInterval returns the next multiple of d after t, counted from the
// beginning of the day. Used to keep scheduled jobs aligned across restarts.
func NextInterval(t time.Time, d time.Duration) time.Time {
	begin := BeginningOfDay(t)
	elapsed := t.Sub(begin)
	return begin.Add(elapsed.Truncate(d) + d)
}
