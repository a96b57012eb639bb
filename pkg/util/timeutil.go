package util

import "time"

// NowUTC is the clock used when no time zone is configured.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// WeekdayIndex maps a weekday onto 0=Monday..6=Sunday.
func WeekdayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}
