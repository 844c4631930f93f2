package openhours

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// civilTwilightElevation is the solar elevation angle defining civil dawn
// and dusk.
const civilTwilightElevation = -6.0

// FixedSolar resolves solar events to fixed fallback times. It is the
// default when no coordinates are known: dawn 06:00, sunrise 07:00,
// sunset 19:00, dusk 20:00.
type FixedSolar struct{}

// EventTime implements SolarEvents.
func (FixedSolar) EventTime(_ time.Time, event TimeEvent) (ExtendedTime, bool) {
	switch event {
	case Dawn:
		return ExtendedTime{6, 0}, true
	case Sunrise:
		return ExtendedTime{7, 0}, true
	case Sunset:
		return ExtendedTime{19, 0}, true
	case Dusk:
		return ExtendedTime{20, 0}, true
	default:
		return ExtendedTime{}, false
	}
}

// GeoSolar computes solar events astronomically for a fixed position.
// Event instants are converted to wall-clock time in Location.
type GeoSolar struct {
	Latitude  float64
	Longitude float64
	Location  *time.Location
}

// NewGeoSolar creates a GeoSolar for the given coordinates and timezone.
func NewGeoSolar(lat, lon float64, loc *time.Location) GeoSolar {
	if loc == nil {
		loc = time.UTC
	}
	return GeoSolar{Latitude: lat, Longitude: lon, Location: loc}
}

// EventTime implements SolarEvents. Reports false during polar day or night
// when the event does not occur.
func (g GeoSolar) EventTime(date time.Time, event TimeEvent) (ExtendedTime, bool) {
	year, month, day := date.Year(), date.Month(), date.Day()

	var instant time.Time
	switch event {
	case Sunrise:
		instant, _ = sunrise.SunriseSunset(g.Latitude, g.Longitude, year, month, day)
	case Sunset:
		_, instant = sunrise.SunriseSunset(g.Latitude, g.Longitude, year, month, day)
	case Dawn:
		instant, _ = sunrise.TimeOfElevation(g.Latitude, g.Longitude, civilTwilightElevation, year, month, day)
	case Dusk:
		_, instant = sunrise.TimeOfElevation(g.Latitude, g.Longitude, civilTwilightElevation, year, month, day)
	default:
		return ExtendedTime{}, false
	}

	if instant.IsZero() {
		return ExtendedTime{}, false
	}

	loc := g.Location
	if loc == nil {
		loc = time.UTC
	}
	local := instant.In(loc)
	return ExtendedTime{Hour: local.Hour(), Minute: local.Minute()}, true
}
