package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enersim/gridopt/core/model"
)

func hourlyGrid(n int) model.TimeGrid {
	start := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	return model.NewTimeGrid(start, n, time.Hour)
}

func TestWeatherProfileShape(t *testing.T) {
	grid := hourlyGrid(24)
	prof, err := WeatherProfile(grid, model.WeatherSunny, DefaultPeakHour)
	require.NoError(t, err)
	require.Len(t, prof, 24)

	// Zero outside the daylight window.
	for _, h := range []int{0, 3, 6, 20, 23} {
		assert.Zerof(t, prof[h], "hour %d should be dark", h)
	}
	// Peak near the configured peak hour, close to full availability.
	assert.Greater(t, prof[12], 0.9)
	assert.Greater(t, prof[13], prof[9])
	assert.Greater(t, prof[13], prof[17])
	for _, v := range prof {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestWeatherProfileArchetypeOrdering(t *testing.T) {
	grid := hourlyGrid(24)
	sunny, err := WeatherProfile(grid, model.WeatherSunny, 0)
	require.NoError(t, err)
	cloudy, err := WeatherProfile(grid, model.WeatherCloudy, 0)
	require.NoError(t, err)
	rainy, err := WeatherProfile(grid, model.WeatherRainy, 0)
	require.NoError(t, err)

	for h := 8; h <= 17; h++ {
		assert.Greater(t, sunny[h], cloudy[h])
		assert.Greater(t, cloudy[h], rainy[h])
	}
}

func TestWeatherProfileUnknownLabel(t *testing.T) {
	_, err := WeatherProfile(hourlyGrid(24), model.WeatherLabel("hail"), 0)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "weather", vErr.Field)
}
