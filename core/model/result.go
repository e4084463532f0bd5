package model

import "time"

// SolveStatus is the terminal state reported by the solver driver.
type SolveStatus string

const (
	StatusOptimal            SolveStatus = "optimal"
	StatusFeasibleSuboptimal SolveStatus = "feasible_suboptimal"
	StatusInfeasible         SolveStatus = "infeasible"
	StatusTimeoutNoSolution  SolveStatus = "timeout_no_solution"
)

// DispatchRecord is the solved allocation for one interval. Energy values are
// the solved power variables multiplied by the interval duration.
type DispatchRecord struct {
	Timestamp           time.Time `json:"timestamp"`
	LoadKWh             float64   `json:"load_kwh"`
	SolarKWh            float64   `json:"solar_kwh"`
	GridImportKWh       float64   `json:"grid_import_kwh"`
	GridExportKWh       float64   `json:"grid_export_kwh"`
	BatteryChargeKWh    float64   `json:"battery_charge_kwh"`
	BatteryDischargeKWh float64   `json:"battery_discharge_kwh"`
	DieselKWh           float64   `json:"diesel_kwh"`
	DieselFuelL         float64   `json:"diesel_fuel_l"`
	FuelCellKWh         float64   `json:"fuel_cell_kwh"`
	ElectrolyzerKWh     float64   `json:"electrolyzer_kwh"`
	CurtailedKWh        float64   `json:"curtailed_kwh"`
	SoC                 float64   `json:"soc"`
	TankKg              float64   `json:"tank_kg"`
}

// Summary aggregates the run KPIs. Both cost and emissions are reported
// regardless of which objective was optimized.
type Summary struct {
	TotalCostEur float64 `json:"total_cost_eur"`
	// GridImportCostEur charges imports only; exports are accounted as
	// revenue in ExportRevenueEur and never netted against imports.
	GridImportCostEur   float64 `json:"grid_import_cost_eur"`
	ExportRevenueEur    float64 `json:"export_revenue_eur"`
	FuelCostEur         float64 `json:"fuel_cost_eur"`
	CurtailmentCostEur  float64 `json:"curtailment_cost_eur"`
	OMCostEur           float64 `json:"om_cost_eur"`
	CostPerKWhEur       float64 `json:"cost_per_kwh_eur"`
	TotalEmissionsKg    float64 `json:"total_emissions_kg"`
	EmissionIntensityKg float64 `json:"emission_intensity_kg_kwh"`
	LoadServedKWh       float64 `json:"load_served_kwh"`
	CurtailedKWh        float64 `json:"curtailed_kwh"`
	CurtailmentPercent  float64 `json:"curtailment_percent"`
	BatteryCycles       float64 `json:"battery_cycles"`
}

// OptimizationResult is the full output of one run.
type OptimizationResult struct {
	RunID          string           `json:"run_id"`
	Status         SolveStatus      `json:"status"`
	Objective      Objective        `json:"objective"`
	ObjectiveValue float64          `json:"objective_value"`
	Records        []DispatchRecord `json:"records"`
	Summary        Summary          `json:"summary"`
	SolveDuration  time.Duration    `json:"solve_duration"`
}
