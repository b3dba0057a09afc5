// Package timezone provides consistent timezone handling for the application.
// Institutions deploy in a single local zone; the active zone defaults to
// Europe/Berlin but can be reconfigured at startup via SetLocation.
package timezone

import (
	"time"
)

// Berlin is the default timezone, kept for callers that still reference it
// directly. Prefer Location() / SetLocation() for configurable deployments.
var Berlin *time.Location

// active is the zone used by Today/Now/DateOf/DateOfUTC. It defaults to
// Berlin and can be changed once at startup.
var active *time.Location

func init() {
	var err error
	Berlin, err = time.LoadLocation("Europe/Berlin")
	if err != nil {
		// Fallback to UTC+1 if timezone data is not available
		// This should never happen in production but provides safety
		Berlin = time.FixedZone("CET", 1*60*60)
	}
	active = Berlin
}

// SetLocation changes the zone used by Today/Now/DateOf/DateOfUTC. Intended
// to be called once during startup configuration, not concurrently with
// request handling.
func SetLocation(loc *time.Location) {
	if loc != nil {
		active = loc
	}
}

// Location returns the zone currently in effect.
func Location() *time.Location {
	return active
}

// Today returns the current date in Berlin timezone with time set to midnight.
// Use this instead of time.Now().Truncate(24 * time.Hour) to avoid timezone bugs.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOf extracts the date portion of a timestamp in Berlin timezone.
// Returns midnight of that date in Berlin timezone.
//
// Example:
//
//	t := time.Date(2026, 1, 18, 0, 30, 0, 0, time.UTC) // 00:30 UTC = 01:30 CET
//	date := timezone.DateOf(t) // 2026-01-18 00:00:00 Europe/Berlin
func DateOf(t time.Time) time.Time {
	inZone := t.In(active)
	return time.Date(
		inZone.Year(),
		inZone.Month(),
		inZone.Day(),
		0, 0, 0, 0,
		active,
	)
}

// Now returns the current time in the active timezone.
func Now() time.Time {
	return time.Now().In(active)
}

// DateOfUTC extracts the date portion of a timestamp in Berlin timezone
// but returns it as UTC midnight. This is useful for database DATE column
// comparisons where the driver converts timestamps to UTC before comparing.
//
// Example:
//
//	t := time.Date(2026, 1, 18, 0, 30, 0, 0, time.UTC) // 00:30 UTC = 01:30 CET
//	date := timezone.DateOfUTC(t) // 2026-01-18 00:00:00 UTC
func DateOfUTC(t time.Time) time.Time {
	inZone := t.In(active)
	return time.Date(
		inZone.Year(),
		inZone.Month(),
		inZone.Day(),
		0, 0, 0, 0,
		time.UTC,
	)
}
