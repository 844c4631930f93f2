package openhours

import (
	"sync"
	"time"
)

// HolidayProvider supplies the dates belonging to a holiday calendar for a
// given year. Implementations must return normalized midnight-UTC dates.
type HolidayProvider interface {
	Holidays(kind HolidayKind, year int) []time.Time
}

// SolarEvents resolves variable time events for a given date. The second
// return value is false when the event does not occur on that date (polar
// day or night).
type SolarEvents interface {
	EventTime(date time.Time, event TimeEvent) (ExtendedTime, bool)
}

// Context carries everything evaluation needs beyond the expression itself:
// the local timezone, the holiday calendars, and the solar event source.
// A Context is safe for concurrent use.
type Context struct {
	Location *time.Location
	Holidays HolidayProvider
	Solar    SolarEvents

	mu    sync.RWMutex
	cache map[holidayCacheKey]map[time.Time]bool
}

type holidayCacheKey struct {
	kind HolidayKind
	year int
}

// NewContext returns a Context with UTC time, no holidays, and fixed
// fallback solar times.
func NewContext() *Context {
	return &Context{
		Location: time.UTC,
		Solar:    FixedSolar{},
	}
}

// WithLocation sets the timezone used to anchor evaluation windows.
func (c *Context) WithLocation(loc *time.Location) *Context {
	c.Location = loc
	return c
}

// WithHolidays sets the holiday provider.
func (c *Context) WithHolidays(p HolidayProvider) *Context {
	c.Holidays = p
	return c
}

// WithSolar sets the solar event source.
func (c *Context) WithSolar(s SolarEvents) *Context {
	c.Solar = s
	return c
}

// location returns the configured timezone, defaulting to UTC.
func (c *Context) location() *time.Location {
	if c == nil || c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// isHoliday reports whether the given date belongs to the holiday calendar.
// Provider results are cached per (calendar, year).
func (c *Context) isHoliday(kind HolidayKind, date time.Time) bool {
	if c == nil || c.Holidays == nil {
		return false
	}
	key := holidayCacheKey{kind: kind, year: date.Year()}

	c.mu.RLock()
	set, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok {
		set = make(map[time.Time]bool)
		for _, d := range c.Holidays.Holidays(kind, date.Year()) {
			set[dateOnly(d)] = true
		}
		c.mu.Lock()
		if c.cache == nil {
			c.cache = make(map[holidayCacheKey]map[time.Time]bool)
		}
		c.cache[key] = set
		c.mu.Unlock()
	}

	return set[dateOnly(date)]
}

// eventTime resolves a solar event for a date, falling back to fixed
// civil-twilight defaults when no solar source is configured.
func (c *Context) eventTime(date time.Time, event TimeEvent) (ExtendedTime, bool) {
	if c == nil || c.Solar == nil {
		return FixedSolar{}.EventTime(date, event)
	}
	return c.Solar.EventTime(date, event)
}
