package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func bogota(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	return loc
}

func TestEnsureZoneReinterpretsNaive(t *testing.T) {
	loc := bogota(t)

	// A stored wall clock of 11:30 read back with a UTC location must become
	// 11:30 in the authoritative zone, not 06:30.
	naive := time.Date(2025, 3, 10, 11, 30, 0, 0, time.UTC)
	got := EnsureZone(naive, loc)

	require.Equal(t, 11, got.Hour())
	require.Equal(t, 30, got.Minute())
	require.Equal(t, loc, got.Location())
}

func TestEnsureZoneConvertsZoned(t *testing.T) {
	loc := bogota(t)

	// Bogota is UTC-5: 16:00 in Lima (also UTC-5) stays 16:00, but the
	// instant is preserved rather than the wall clock reinterpreted.
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	zoned := time.Date(2025, 3, 10, 16, 0, 0, 0, lima)
	got := EnsureZone(zoned, loc)

	require.True(t, got.Equal(zoned))
	require.Equal(t, loc, got.Location())
}

func TestDayOf(t *testing.T) {
	loc := bogota(t)

	morning := time.Date(2025, 3, 10, 0, 1, 0, 0, loc)
	night := time.Date(2025, 3, 10, 23, 59, 0, 0, loc)
	nextDay := time.Date(2025, 3, 11, 0, 0, 0, 0, loc)

	require.True(t, SameDay(morning, night, loc))
	require.False(t, SameDay(night, nextDay, loc))
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), DayOf(night, loc))
}

func TestSameDayAcrossZones(t *testing.T) {
	loc := bogota(t)

	// 2025-03-11 02:00 UTC is still 2025-03-10 in Bogota.
	utcTime := time.Date(2025, 3, 11, 2, 0, 0, 0, time.FixedZone("UTC+0", 0))
	local := time.Date(2025, 3, 10, 20, 0, 0, 0, loc)

	require.True(t, SameDay(utcTime, local, loc))
}
