package model

import (
	"fmt"
	"time"
)

// Objective selects which metric the solver minimizes. The inactive metric is
// still computed after solving as a reporting KPI.
type Objective string

const (
	ObjectiveCost      Objective = "cost"
	ObjectiveEmissions Objective = "emissions"
)

// ParseObjective maps a configuration string to an Objective.
func ParseObjective(s string) (Objective, error) {
	switch Objective(s) {
	case ObjectiveCost, ObjectiveEmissions:
		return Objective(s), nil
	case "":
		return ObjectiveCost, nil
	}
	return "", &ValidationError{Field: "objective", Reason: fmt.Sprintf("unknown objective %q", s)}
}

// WeatherLabel selects a fallback solar archetype when no solar series is
// supplied.
type WeatherLabel string

const (
	WeatherSunny  WeatherLabel = "sunny"
	WeatherCloudy WeatherLabel = "cloudy"
	WeatherRainy  WeatherLabel = "rainy"
)

// OptimizationRequest carries every input of a single optimization run. The
// optimizer is a pure function of this value: no ambient configuration is
// consulted during model construction.
type OptimizationRequest struct {
	// HorizonDays and ResolutionMinutes define the time grid:
	// T = HorizonDays*24*60/ResolutionMinutes. Resolution must be 15, 30 or 60.
	HorizonDays       int       `json:"horizon_days"`
	ResolutionMinutes int       `json:"resolution_minutes"`
	Start             time.Time `json:"start"`

	Objective Objective `json:"objective"`

	// LoadKW and PriceEurKWh must align to T or resample evenly onto it.
	LoadKW            []float64 `json:"load_kw"`
	PriceEurKWh       []float64 `json:"price_eur_kwh"`
	ExportPriceEurKWh []float64 `json:"export_price_eur_kwh,omitempty"`
	// SolarKW is optional; when absent the Weather archetype is used.
	SolarKW []float64    `json:"solar_kw,omitempty"`
	Weather WeatherLabel `json:"weather,omitempty"`
	// SolarPeakHour centers the archetype profile; defaults to 13 (solar noon
	// plus typical grid-time offset).
	SolarPeakHour float64 `json:"solar_peak_hour,omitempty"`

	Assets AssetParameters `json:"assets"`

	InitialSoC    float64 `json:"initial_soc"`
	InitialTankKg float64 `json:"initial_tank_kg"`

	EnableDiesel   bool `json:"enable_diesel"`
	EnableHydrogen bool `json:"enable_hydrogen"`
}

// Grid derives the time grid from the requested horizon and resolution.
func (r OptimizationRequest) Grid() (TimeGrid, error) {
	switch r.ResolutionMinutes {
	case 15, 30, 60:
	default:
		return TimeGrid{}, &ValidationError{Field: "resolution_minutes", Reason: "must be 15, 30 or 60"}
	}
	if r.HorizonDays <= 0 {
		return TimeGrid{}, &ValidationError{Field: "horizon_days", Reason: "must be positive"}
	}
	n := r.HorizonDays * 24 * 60 / r.ResolutionMinutes
	return NewTimeGrid(r.Start, n, time.Duration(r.ResolutionMinutes)*time.Minute), nil
}
