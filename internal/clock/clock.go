// Package clock provides an injectable source of the current time, fixed to
// a single configured location. Services depend on the Clock interface
// rather than calling time.Now() directly so that tests can control time.
package clock

import (
	"time"

	"github.com/moto-nrw/project-phoenix/internal/timezone"
)

// Clock is the injectable time source used across the attendance engine.
// All operations are relative to a single configured location (see
// internal/timezone); there is no per-request timezone negotiation.
type Clock interface {
	// Now returns the current time in the configured location.
	Now() time.Time

	// Today returns midnight of the current date in the configured location.
	Today() time.Time

	// DateOf extracts the date portion of t in the configured location,
	// returned as midnight in that location.
	DateOf(t time.Time) time.Time
}

// Real is a Clock backed by the system clock and the configured
// internal/timezone location.
type Real struct{}

// NewReal returns a Clock backed by the system clock.
func NewReal() Real {
	return Real{}
}

func (Real) Now() time.Time {
	return timezone.Now()
}

func (Real) Today() time.Time {
	return timezone.Today()
}

func (Real) DateOf(t time.Time) time.Time {
	return timezone.DateOf(t)
}

// Fake is a Clock with a settable, monotonically-advanceable time, for
// deterministic tests of scheduling and finalization logic.
type Fake struct {
	now time.Time
}

// NewFake returns a Fake clock pinned to t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t.In(timezone.Location())}
}

func (f *Fake) Now() time.Time {
	return f.now
}

func (f *Fake) Today() time.Time {
	return f.DateOf(f.now)
}

func (f *Fake) DateOf(t time.Time) time.Time {
	loc := timezone.Location()
	inLoc := t.In(loc)
	return time.Date(inLoc.Year(), inLoc.Month(), inLoc.Day(), 0, 0, 0, 0, loc)
}

// Set pins the fake clock to t.
func (f *Fake) Set(t time.Time) {
	f.now = t.In(timezone.Location())
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}
