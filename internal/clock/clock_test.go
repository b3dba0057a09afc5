package clock

import (
	"testing"
	"time"

	"github.com/moto-nrw/project-phoenix/internal/timezone"
	"github.com/stretchr/testify/assert"
)

func TestFakeTodayMidnight(t *testing.T) {
	loc := timezone.Location()
	c := NewFake(time.Date(2026, 7, 31, 14, 32, 0, 0, loc))

	today := c.Today()

	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 31, today.Day())
	assert.Equal(t, time.July, today.Month())
}

func TestFakeAdvance(t *testing.T) {
	loc := timezone.Location()
	c := NewFake(time.Date(2026, 7, 31, 9, 59, 30, 0, loc))

	c.Advance(30 * time.Second)

	assert.Equal(t, 10, c.Now().Hour())
	assert.Equal(t, 0, c.Now().Minute())
}

func TestFakeDateOfCrossesMidnight(t *testing.T) {
	loc := timezone.Location()
	c := NewFake(time.Date(2026, 7, 31, 0, 0, 0, 0, loc))

	d := c.DateOf(time.Date(2026, 7, 30, 23, 59, 59, 0, loc))

	assert.Equal(t, 30, d.Day())
}
