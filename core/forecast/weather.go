package forecast

import (
	"math"

	"github.com/enersim/gridopt/core/model"
)

// DefaultPeakHour centers the fallback solar profile when the caller does not
// supply one.
const DefaultPeakHour = 13.0

// daylightHalfWindow is the half-width of the production window in hours.
const daylightHalfWindow = 6.0

// peakAvailability maps a weather archetype to the availability fraction
// reached at the peak hour.
func peakAvailability(label model.WeatherLabel) (float64, bool) {
	switch label {
	case model.WeatherSunny:
		return 1.0, true
	case model.WeatherCloudy:
		return 0.45, true
	case model.WeatherRainy:
		return 0.15, true
	}
	return 0, false
}

// WeatherProfile synthesizes a diurnal solar availability series for the grid:
// a sinusoid clipped to zero outside the daylight window, peaking at peakHour.
// Values are fractions of rated PV capacity.
func WeatherProfile(grid model.TimeGrid, label model.WeatherLabel, peakHour float64) ([]float64, error) {
	peak, ok := peakAvailability(label)
	if !ok {
		return nil, &model.ValidationError{Field: "weather", Reason: "unknown weather label " + string(label)}
	}
	if peakHour <= 0 {
		peakHour = DefaultPeakHour
	}
	sunrise := peakHour - daylightHalfWindow
	out := make([]float64, grid.Intervals)
	for t := range out {
		h := grid.HourOfDay(t)
		x := (h - sunrise) / (2 * daylightHalfWindow)
		if x <= 0 || x >= 1 {
			continue
		}
		out[t] = peak * math.Sin(math.Pi*x)
	}
	return out, nil
}
