// Package forecast aligns caller-supplied load, price and solar series onto
// the optimization time grid and resolves missing solar input to a weather
// archetype profile. All transforms are pure.
package forecast

import (
	"fmt"

	"github.com/enersim/gridopt/core/model"
)

// BuildSeries normalizes the request inputs into a SourceSeries of exactly
// grid.Intervals entries.
//
// Load and price must match the grid length or resample evenly onto it. The
// export price defaults to zero everywhere: exports earn nothing unless the
// caller prices them. A missing solar series falls back to the weather
// archetype; solar power values are converted to availability fractions of
// the rated PV capacity and clamped to [0,1].
func BuildSeries(grid model.TimeGrid, req model.OptimizationRequest) (model.SourceSeries, error) {
	load, err := resample(req.LoadKW, grid.Intervals, "load")
	if err != nil {
		return model.SourceSeries{}, err
	}
	price, err := resample(req.PriceEurKWh, grid.Intervals, "price")
	if err != nil {
		return model.SourceSeries{}, err
	}

	export := make([]float64, grid.Intervals)
	if len(req.ExportPriceEurKWh) > 0 {
		export, err = resample(req.ExportPriceEurKWh, grid.Intervals, "export_price")
		if err != nil {
			return model.SourceSeries{}, err
		}
	}

	solar, err := solarAvailability(grid, req)
	if err != nil {
		return model.SourceSeries{}, err
	}

	s := model.SourceSeries{
		LoadKW:            load,
		PriceEurKWh:       price,
		ExportPriceEurKWh: export,
		SolarAvailability: solar,
	}
	if err := s.Validate(grid.Intervals); err != nil {
		return model.SourceSeries{}, err
	}
	return s, nil
}

func solarAvailability(grid model.TimeGrid, req model.OptimizationRequest) ([]float64, error) {
	if len(req.SolarKW) == 0 {
		label := req.Weather
		if label == "" {
			label = model.WeatherSunny
		}
		return WeatherProfile(grid, label, req.SolarPeakHour)
	}
	kw, err := resample(req.SolarKW, grid.Intervals, "solar")
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(kw))
	cap := req.Assets.PV.CapacityKW
	for t, v := range kw {
		if cap <= 0 {
			break
		}
		frac := v / cap
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		out[t] = frac
	}
	return out, nil
}

// resample maps a series of length m onto n intervals. When n is a multiple
// of m each value is repeated; when m is a multiple of n chunks are averaged.
// Anything else cannot be aligned and fails validation.
func resample(series []float64, n int, field string) ([]float64, error) {
	m := len(series)
	switch {
	case m == 0:
		return nil, &model.ValidationError{Field: field, Reason: "series is required"}
	case m == n:
		out := make([]float64, n)
		copy(out, series)
		return out, nil
	case n%m == 0:
		k := n / m
		out := make([]float64, 0, n)
		for _, v := range series {
			for i := 0; i < k; i++ {
				out = append(out, v)
			}
		}
		return out, nil
	case m%n == 0:
		k := m / n
		out := make([]float64, n)
		for i := range out {
			sum := 0.0
			for j := 0; j < k; j++ {
				sum += series[i*k+j]
			}
			out[i] = sum / float64(k)
		}
		return out, nil
	}
	return nil, &model.ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("series length %d cannot be resampled onto %d intervals", m, n),
	}
}
