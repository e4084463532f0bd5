package model

import "fmt"

// EfficiencyBreakpoint is one (power, efficiency) pair of a device curve.
// Breakpoints must be strictly increasing in power; the first segment spans
// from zero to the first breakpoint.
type EfficiencyBreakpoint struct {
	PowerKW    float64 `json:"power_kw"`
	Efficiency float64 `json:"efficiency"`
}

// PVParams describes the photovoltaic installation.
type PVParams struct {
	CapacityKW     float64 `json:"capacity_kw"`
	OMCostEurKWh   float64 `json:"om_cost_eur_kwh"`
	EmissionKgKWh  float64 `json:"emission_kg_kwh"`
}

// BatteryParams describes the stationary battery.
type BatteryParams struct {
	CapacityKWh      float64 `json:"capacity_kwh"`
	ChargeEff        float64 `json:"charge_eff"`
	DischargeEff     float64 `json:"discharge_eff"`
	MinSoC           float64 `json:"min_soc"`
	MaxSoC           float64 `json:"max_soc"`
	MaxChargeKW      float64 `json:"max_charge_kw"`
	MaxDischargeKW   float64 `json:"max_discharge_kw"`
	OMCostEurKWh     float64 `json:"om_cost_eur_kwh"`
	EmissionKgKWh    float64 `json:"emission_kg_kwh"`
}

// Enabled reports whether the battery participates in dispatch.
func (b BatteryParams) Enabled() bool { return b.CapacityKWh > 0 }

// DieselParams describes the genset. The affine fuel curve
// F = FuelSlope*P + FuelIntercept*on models no-load fuel burn; a positive
// MinPowerKW floor turns the model into a MILP via the on/off indicator.
type DieselParams struct {
	MinPowerKW     float64 `json:"min_power_kw"`
	MaxPowerKW     float64 `json:"max_power_kw"`
	FuelPriceEurL  float64 `json:"fuel_price_eur_l"`
	FuelSlopeLKWh  float64 `json:"fuel_slope_l_kwh"`
	FuelIdleLH     float64 `json:"fuel_idle_l_h"`
	EmissionKgKWh  float64 `json:"emission_kg_kwh"`
}

// GridParams bounds the point of common coupling. Use model.Unlimited for an
// unconstrained direction; a zero limit forbids the exchange entirely.
type GridParams struct {
	ImportLimitKW float64 `json:"import_limit_kw"`
	ExportLimitKW float64 `json:"export_limit_kw"`
	EmissionKgKWh float64 `json:"emission_kg_kwh"`
}

// HydrogenParams describes the electrolyzer, tank and fuel cell chain.
type HydrogenParams struct {
	ElectrolyzerRatedKW float64                `json:"electrolyzer_rated_kw"`
	ElectrolyzerCurve   []EfficiencyBreakpoint `json:"electrolyzer_curve"`
	FuelCellRatedKW     float64                `json:"fuel_cell_rated_kw"`
	FuelCellCurve       []EfficiencyBreakpoint `json:"fuel_cell_curve"`
	TankCapacityKg      float64                `json:"tank_capacity_kg"`
	// LHVKWhKg is the lower heating value of hydrogen, typically 33.33 kWh/kg.
	LHVKWhKg            float64                `json:"lhv_kwh_kg"`
	OMCostEurKWh        float64                `json:"om_cost_eur_kwh"`
	FuelCellEmissionKg  float64                `json:"fuel_cell_emission_kg_kwh"`
}

// CurtailmentParams prices deliberate load shedding. A zero fraction disables
// curtailment.
type CurtailmentParams struct {
	Fraction      float64 `json:"fraction"`
	PenaltyEurKWh float64 `json:"penalty_eur_kwh"`
	// EmissionPenaltyKgKWh discourages curtailment under the emissions
	// objective. Defaults to 1000 when unset.
	EmissionPenaltyKgKWh float64 `json:"emission_penalty_kg_kwh"`
}

// AssetParameters is the immutable per-run plant configuration.
type AssetParameters struct {
	PV          PVParams          `json:"pv"`
	Battery     BatteryParams     `json:"battery"`
	Diesel      DieselParams      `json:"diesel"`
	Grid        GridParams        `json:"grid"`
	Hydrogen    HydrogenParams    `json:"hydrogen"`
	Curtailment CurtailmentParams `json:"curtailment"`
}

// Validate checks parameter sanity. Curve shape validation (monotonicity,
// concavity) happens in the piecewise-linear modeler.
func (a AssetParameters) Validate() error {
	if a.PV.CapacityKW < 0 {
		return &ConfigurationError{Parameter: "pv.capacity_kw", Reason: "must be non-negative"}
	}
	if b := a.Battery; b.Enabled() {
		if b.ChargeEff <= 0 || b.ChargeEff > 1 {
			return &ConfigurationError{Parameter: "battery.charge_eff", Reason: "must be in (0,1]"}
		}
		if b.DischargeEff <= 0 || b.DischargeEff > 1 {
			return &ConfigurationError{Parameter: "battery.discharge_eff", Reason: "must be in (0,1]"}
		}
		if b.MinSoC < 0 || b.MaxSoC > 1 || b.MinSoC >= b.MaxSoC {
			return &ConfigurationError{Parameter: "battery.soc", Reason: fmt.Sprintf("bounds [%g,%g] must satisfy 0 <= min < max <= 1", b.MinSoC, b.MaxSoC)}
		}
		if b.MaxChargeKW < 0 || b.MaxDischargeKW < 0 {
			return &ConfigurationError{Parameter: "battery.power", Reason: "rated powers must be non-negative"}
		}
	}
	if d := a.Diesel; d.MaxPowerKW > 0 {
		if d.MinPowerKW < 0 || d.MinPowerKW > d.MaxPowerKW {
			return &ConfigurationError{Parameter: "diesel.min_power_kw", Reason: "must be in [0, max_power_kw]"}
		}
		if d.FuelSlopeLKWh < 0 || d.FuelIdleLH < 0 {
			return &ConfigurationError{Parameter: "diesel.fuel_curve", Reason: "fuel curve coefficients must be non-negative"}
		}
	}
	if a.Grid.ImportLimitKW < 0 || a.Grid.ExportLimitKW < 0 {
		return &ConfigurationError{Parameter: "grid.limits", Reason: "limits must be non-negative (use model.Unlimited for no bound)"}
	}
	if h := a.Hydrogen; h.ElectrolyzerRatedKW > 0 || h.FuelCellRatedKW > 0 {
		if h.LHVKWhKg <= 0 {
			return &ConfigurationError{Parameter: "hydrogen.lhv_kwh_kg", Reason: "must be positive"}
		}
		if h.TankCapacityKg < 0 {
			return &ConfigurationError{Parameter: "hydrogen.tank_capacity_kg", Reason: "must be non-negative"}
		}
	}
	if c := a.Curtailment; c.Fraction < 0 || c.Fraction > 1 {
		return &ConfigurationError{Parameter: "curtailment.fraction", Reason: "must be in [0,1]"}
	}
	return nil
}
