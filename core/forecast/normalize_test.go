package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enersim/gridopt/core/model"
)

func req(load, price []float64) model.OptimizationRequest {
	return model.OptimizationRequest{
		LoadKW:      load,
		PriceEurKWh: price,
		Weather:     model.WeatherSunny,
	}
}

func TestBuildSeriesAligned(t *testing.T) {
	grid := hourlyGrid(4)
	r := req([]float64{10, 20, 30, 40}, []float64{1, 2, 3, 4})
	s, err := BuildSeries(grid, r)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30, 40}, s.LoadKW)
	assert.Equal(t, []float64{1, 2, 3, 4}, s.PriceEurKWh)
	assert.Equal(t, []float64{0, 0, 0, 0}, s.ExportPriceEurKWh)
	require.Len(t, s.SolarAvailability, 4)
}

func TestBuildSeriesRepeatsShortSeries(t *testing.T) {
	grid := hourlyGrid(8)
	r := req([]float64{10, 20}, []float64{1, 2})
	s, err := BuildSeries(grid, r)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10, 10, 10, 20, 20, 20, 20}, s.LoadKW)
	assert.Equal(t, []float64{1, 1, 1, 1, 2, 2, 2, 2}, s.PriceEurKWh)
}

func TestBuildSeriesAveragesLongSeries(t *testing.T) {
	grid := hourlyGrid(2)
	r := req([]float64{10, 20, 30, 40}, []float64{1, 1, 3, 3})
	s, err := BuildSeries(grid, r)
	require.NoError(t, err)
	assert.Equal(t, []float64{15, 35}, s.LoadKW)
	assert.Equal(t, []float64{1, 3}, s.PriceEurKWh)
}

func TestBuildSeriesRejectsUnalignedLength(t *testing.T) {
	grid := hourlyGrid(4)
	r := req([]float64{10, 20, 30}, []float64{1, 2, 3, 4})
	_, err := BuildSeries(grid, r)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "load", vErr.Field)
}

func TestBuildSeriesRejectsMissingSeries(t *testing.T) {
	grid := hourlyGrid(4)
	_, err := BuildSeries(grid, req(nil, []float64{1, 2, 3, 4}))
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "load", vErr.Field)
}

func TestBuildSeriesSolarFromPower(t *testing.T) {
	grid := hourlyGrid(4)
	r := req([]float64{10, 10, 10, 10}, []float64{1, 1, 1, 1})
	r.SolarKW = []float64{0, 50, 100, 150}
	r.Assets.PV.CapacityKW = 100
	s, err := BuildSeries(grid, r)
	require.NoError(t, err)
	// Converted to availability fractions and clamped to [0,1].
	assert.Equal(t, []float64{0, 0.5, 1, 1}, s.SolarAvailability)
}

func TestBuildSeriesSolarFallbackByWeather(t *testing.T) {
	start := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	grid := model.NewTimeGrid(start, 24, time.Hour)
	r := req(make([]float64, 24), make([]float64, 24))
	for i := range r.LoadKW {
		r.LoadKW[i] = 5
		r.PriceEurKWh[i] = 1
	}
	r.Weather = model.WeatherCloudy
	s, err := BuildSeries(grid, r)
	require.NoError(t, err)
	assert.Zero(t, s.SolarAvailability[0])
	assert.Greater(t, s.SolarAvailability[12], 0.4)
	assert.Less(t, s.SolarAvailability[12], 0.46)
}

func TestBuildSeriesExportPriceResampled(t *testing.T) {
	grid := hourlyGrid(4)
	r := req([]float64{10, 10, 10, 10}, []float64{1, 1, 1, 1})
	r.ExportPriceEurKWh = []float64{2, 3}
	s, err := BuildSeries(grid, r)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 3, 3}, s.ExportPriceEurKWh)
}
