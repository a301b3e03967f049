package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// EnsureZone reinterprets a zone-naive timestamp as wall-clock time in loc.
// Event timestamps are stored without zone information and come back from the
// driver with a UTC location; comparing them raw against a zoned "now" shifts
// every decision by the zone offset. Timestamps that already carry a real zone
// are only converted, never reinterpreted.
func EnsureZone(t time.Time, loc *time.Location) time.Time {
	if t.Location() == time.UTC {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	}
	return t.In(loc)
}

// StripZone rebuilds t's wall clock with a UTC location, the representation
// zone-naive columns round-trip through. Inverse of EnsureZone.
func StripZone(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// DayOf returns the calendar date of t in loc, truncated to midnight. Two
// timestamps belong to the same dedup period exactly when their DayOf values
// are equal.
func DayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayOf(a, loc).Equal(DayOf(b, loc))
}
