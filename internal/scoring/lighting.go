package scoring

import (
	"time"

	"github.com/sj14/astral/pkg/astral"
)

// Lighting scores by sun phase
const (
	lightingDay      = 95.0
	lightingTwilight = 70.0
	lightingLitNight = 55.0 // street lighting hours
	lightingDark     = 35.0
)

// lightingScore estimates ambient lighting from real sun events at the given
// location and time, falling back to the hour table when the calculation is
// not possible (e.g. polar latitudes).
func lightingScore(lat, lon float64, t time.Time) float64 {
	observer := astral.Observer{Latitude: lat, Longitude: lon}
	date := t

	dawn, err := astral.Dawn(observer, date, astral.DepressionCivil)
	if err != nil {
		return LightingHourScore(t.Hour())
	}
	sunrise, err := astral.Sunrise(observer, date)
	if err != nil {
		return LightingHourScore(t.Hour())
	}
	sunset, err := astral.Sunset(observer, date)
	if err != nil {
		return LightingHourScore(t.Hour())
	}
	dusk, err := astral.Dusk(observer, date, astral.DepressionCivil)
	if err != nil {
		return LightingHourScore(t.Hour())
	}

	switch {
	case t.After(sunrise) && t.Before(sunset):
		return lightingDay
	case t.After(dawn) && t.Before(dusk):
		return lightingTwilight
	default:
		// Full darkness; street lighting keeps the evening hours above
		// the small hours.
		h := t.Hour()
		if h >= 19 && h < 23 {
			return lightingLitNight
		}
		return lightingDark
	}
}
