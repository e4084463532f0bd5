package optimizer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enersim/gridopt/core/model"
	"github.com/enersim/gridopt/infra/logger"
)

var testStart = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func newTestOptimizer() *Optimizer {
	return New(SolveOptions{}, logger.NopLogger{})
}

func flat(v float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func gridOnlyRequest() model.OptimizationRequest {
	r := model.OptimizationRequest{
		HorizonDays:       1,
		ResolutionMinutes: 60,
		Start:             testStart,
		LoadKW:            flat(100, 24),
		PriceEurKWh:       []float64{5, 5, 10, 10},
		Weather:           model.WeatherSunny,
	}
	r.Assets.Grid.ImportLimitKW = model.Unlimited
	return r
}

func TestGridOnlyFlatLoad(t *testing.T) {
	res, err := newTestOptimizer().Run(context.Background(), gridOnlyRequest())
	require.NoError(t, err)
	assert.Equal(t, model.StatusOptimal, res.Status)
	assert.Equal(t, model.ObjectiveCost, res.Objective)
	require.Len(t, res.Records, 24)

	// Imports are the only supply: 100 kWh per hour, half at 5, half at 10.
	for _, rec := range res.Records {
		assert.InDelta(t, 100, rec.GridImportKWh, 1e-6)
		assert.InDelta(t, 0, rec.GridExportKWh, 1e-9)
	}
	assert.InDelta(t, 18000, res.Summary.TotalCostEur, 1e-6)
	assert.InDelta(t, 18000, res.ObjectiveValue, 1e-6)
	assert.InDelta(t, 7.5, res.Summary.CostPerKWhEur, 1e-9)
	assert.InDelta(t, 2400, res.Summary.LoadServedKWh, 1e-6)
	assert.NotEmpty(t, res.RunID)
}

func TestRunOnGridSixHourBlocks(t *testing.T) {
	grid := model.NewTimeGrid(testStart, 4, 6*time.Hour)
	r := model.OptimizationRequest{
		LoadKW:      flat(100.0/6, 4),
		PriceEurKWh: []float64{5, 5, 10, 10},
		Weather:     model.WeatherSunny,
	}
	r.Assets.Grid.ImportLimitKW = model.Unlimited

	res, err := newTestOptimizer().RunOnGrid(context.Background(), grid, r)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOptimal, res.Status)
	require.Len(t, res.Records, 4)
	for _, rec := range res.Records {
		assert.InDelta(t, 100, rec.GridImportKWh, 1e-6)
	}
	assert.InDelta(t, 3000, res.Summary.TotalCostEur, 1e-6)
}

func TestInfeasibleWithoutImports(t *testing.T) {
	r := gridOnlyRequest()
	r.Assets.Grid.ImportLimitKW = 0

	_, err := newTestOptimizer().Run(context.Background(), r)
	var infErr *model.InfeasibleModelError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, 24, infErr.Intervals)
	assert.Contains(t, infErr.Hints, "allow grid imports")
	assert.Contains(t, infErr.Hints, "enable curtailment")
}

func TestBatteryArbitrage(t *testing.T) {
	grid := model.NewTimeGrid(testStart, 4, time.Hour)
	r := model.OptimizationRequest{
		LoadKW:      flat(100, 4),
		PriceEurKWh: []float64{1, 1, 10, 10},
		Weather:     model.WeatherSunny,
	}
	r.Assets.Grid.ImportLimitKW = model.Unlimited
	r.Assets.Battery = model.BatteryParams{
		CapacityKWh:    200,
		ChargeEff:      1,
		DischargeEff:   1,
		MinSoC:         0,
		MaxSoC:         1,
		MaxChargeKW:    100,
		MaxDischargeKW: 100,
	}

	res, err := newTestOptimizer().RunOnGrid(context.Background(), grid, r)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOptimal, res.Status)

	// Charge 200 kWh in the cheap hours, discharge it in the expensive ones.
	assert.InDelta(t, 200, res.Records[0].GridImportKWh, 1e-6)
	assert.InDelta(t, 200, res.Records[1].GridImportKWh, 1e-6)
	assert.InDelta(t, 0, res.Records[2].GridImportKWh, 1e-6)
	assert.InDelta(t, 0, res.Records[3].GridImportKWh, 1e-6)
	assert.InDelta(t, 100, res.Records[2].BatteryDischargeKWh, 1e-6)
	assert.InDelta(t, 1.0, res.Records[1].SoC, 1e-6)
	assert.InDelta(t, 0.0, res.Records[3].SoC, 1e-6)
	assert.InDelta(t, 400, res.Summary.TotalCostEur, 1e-6)
	assert.InDelta(t, 1.0, res.Summary.BatteryCycles, 1e-6)

	// Supply matches demand in every interval (unit efficiencies).
	for _, rec := range res.Records {
		supply := rec.GridImportKWh + rec.SolarKWh + rec.BatteryDischargeKWh
		demand := rec.LoadKWh + rec.BatteryChargeKWh + rec.GridExportKWh
		assert.InDelta(t, demand, supply, 1e-6)
	}
}

func TestExportRevenueSeparateFromImportCost(t *testing.T) {
	grid := model.NewTimeGrid(testStart, 1, time.Hour)
	r := model.OptimizationRequest{
		LoadKW:            []float64{100},
		PriceEurKWh:       []float64{5},
		ExportPriceEurKWh: []float64{2},
		SolarKW:           []float64{300},
	}
	r.Assets.PV.CapacityKW = 300
	r.Assets.Grid.ImportLimitKW = model.Unlimited
	r.Assets.Grid.ExportLimitKW = 200

	opt := newTestOptimizer()
	res, err := opt.RunOnGrid(context.Background(), grid, r)
	require.NoError(t, err)

	// Surplus PV is exported as revenue; the import cost stays at zero and is
	// never netted against it.
	assert.InDelta(t, 200, res.Records[0].GridExportKWh, 1e-6)
	assert.InDelta(t, 0, res.Summary.GridImportCostEur, 1e-9)
	assert.InDelta(t, 400, res.Summary.ExportRevenueEur, 1e-6)
	assert.InDelta(t, -400, res.Summary.TotalCostEur, 1e-6)

	// With exports forbidden the surplus is simply not produced.
	r.Assets.Grid.ExportLimitKW = 0
	res, err = opt.RunOnGrid(context.Background(), grid, r)
	require.NoError(t, err)
	assert.InDelta(t, 100, res.Records[0].SolarKWh, 1e-6)
	assert.InDelta(t, 0, res.Records[0].GridExportKWh, 1e-9)
	assert.InDelta(t, 0, res.Summary.TotalCostEur, 1e-9)
}

func TestObjectiveSelectsSupply(t *testing.T) {
	grid := model.NewTimeGrid(testStart, 1, time.Hour)
	base := model.OptimizationRequest{
		LoadKW:      []float64{100},
		PriceEurKWh: []float64{5},
		SolarKW:     []float64{100},
	}
	base.Assets.PV.CapacityKW = 100
	base.Assets.PV.OMCostEurKWh = 1000
	base.Assets.Grid.ImportLimitKW = model.Unlimited
	base.Assets.Grid.EmissionKgKWh = 0.5

	opt := newTestOptimizer()

	// Cost objective: importing at 5 beats PV at its absurd O&M price.
	res, err := opt.RunOnGrid(context.Background(), grid, base)
	require.NoError(t, err)
	assert.InDelta(t, 100, res.Records[0].GridImportKWh, 1e-6)
	assert.InDelta(t, 50, res.Summary.TotalEmissionsKg, 1e-6)

	// Emissions objective: PV is free of carbon regardless of its cost.
	em := base
	em.Objective = model.ObjectiveEmissions
	res, err = opt.RunOnGrid(context.Background(), grid, em)
	require.NoError(t, err)
	assert.Equal(t, model.ObjectiveEmissions, res.Objective)
	assert.InDelta(t, 100, res.Records[0].SolarKWh, 1e-6)
	assert.InDelta(t, 0, res.Summary.TotalEmissionsKg, 1e-9)
}

func TestDieselMinimumLoadGate(t *testing.T) {
	mk := func(loadKW float64) model.OptimizationRequest {
		grid := model.OptimizationRequest{
			LoadKW:       []float64{loadKW},
			PriceEurKWh:  []float64{10},
			EnableDiesel: true,
		}
		grid.Assets.Grid.ImportLimitKW = model.Unlimited
		grid.Assets.Diesel = model.DieselParams{
			MinPowerKW:    50,
			MaxPowerKW:    100,
			FuelPriceEurL: 1,
			FuelSlopeLKWh: 0.2,
			FuelIdleLH:    1,
		}
		return grid
	}
	tg := model.NewTimeGrid(testStart, 1, time.Hour)
	opt := newTestOptimizer()

	// Above the floor the genset is far cheaper than the grid.
	res, err := opt.RunOnGrid(context.Background(), tg, mk(60))
	require.NoError(t, err)
	assert.Equal(t, model.StatusOptimal, res.Status)
	assert.InDelta(t, 60, res.Records[0].DieselKWh, 1e-6)
	assert.InDelta(t, 0, res.Records[0].GridImportKWh, 1e-6)
	assert.InDelta(t, 13, res.Records[0].DieselFuelL, 1e-6)
	assert.InDelta(t, 13, res.Summary.FuelCostEur, 1e-6)

	// Below the floor the genset cannot throttle down and must stay off.
	res, err = opt.RunOnGrid(context.Background(), tg, mk(30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusOptimal, res.Status)
	assert.InDelta(t, 0, res.Records[0].DieselKWh, 1e-9)
	assert.InDelta(t, 0, res.Records[0].DieselFuelL, 1e-9)
	assert.InDelta(t, 30, res.Records[0].GridImportKWh, 1e-6)
}

func TestDisablingDieselNeverCheaper(t *testing.T) {
	tg := model.NewTimeGrid(testStart, 1, time.Hour)
	r := model.OptimizationRequest{
		LoadKW:       []float64{60},
		PriceEurKWh:  []float64{10},
		EnableDiesel: true,
	}
	r.Assets.Grid.ImportLimitKW = model.Unlimited
	r.Assets.Diesel = model.DieselParams{
		MaxPowerKW:    100,
		FuelPriceEurL: 1,
		FuelSlopeLKWh: 0.2,
	}
	opt := newTestOptimizer()

	withDiesel, err := opt.RunOnGrid(context.Background(), tg, r)
	require.NoError(t, err)

	r.EnableDiesel = false
	withoutDiesel, err := opt.RunOnGrid(context.Background(), tg, r)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, withoutDiesel.Summary.TotalCostEur, withDiesel.Summary.TotalCostEur)
	assert.InDelta(t, 12, withDiesel.Summary.TotalCostEur, 1e-6)
	assert.InDelta(t, 600, withoutDiesel.Summary.TotalCostEur, 1e-6)
}

func TestHydrogenRoundTrip(t *testing.T) {
	grid := model.NewTimeGrid(testStart, 2, time.Hour)
	r := model.OptimizationRequest{
		LoadKW:         []float64{0, 100},
		PriceEurKWh:    []float64{0, 100},
		EnableHydrogen: true,
	}
	r.Assets.Grid.ImportLimitKW = model.Unlimited
	r.Assets.Hydrogen = model.HydrogenParams{
		ElectrolyzerRatedKW: 400,
		ElectrolyzerCurve: []model.EfficiencyBreakpoint{
			{PowerKW: 200, Efficiency: 0.7},
			{PowerKW: 400, Efficiency: 0.6},
		},
		FuelCellRatedKW: 150,
		FuelCellCurve: []model.EfficiencyBreakpoint{
			{PowerKW: 75, Efficiency: 0.55},
			{PowerKW: 150, Efficiency: 0.45},
		},
		TankCapacityKg: 20,
		LHVKWhKg:       33.33,
		OMCostEurKWh:   0.01,
	}

	res, err := newTestOptimizer().RunOnGrid(context.Background(), grid, r)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOptimal, res.Status)

	// Hydrogen made from free power in hour one carries the load through the
	// expensive hour, with no more production than the fuel cell needs.
	assert.InDelta(t, 100, res.Records[1].FuelCellKWh, 1e-4)
	assert.InDelta(t, 0, res.Records[1].GridImportKWh, 1e-4)
	assert.InDelta(t, 286.54, res.Records[0].ElectrolyzerKWh, 0.1)
	assert.Greater(t, res.Records[0].TankKg, 5.7)
	assert.InDelta(t, 0, res.Records[1].TankKg, 1e-4)
}

func TestCurtailmentRelievesImportLimit(t *testing.T) {
	tg := model.NewTimeGrid(testStart, 1, time.Hour)
	r := model.OptimizationRequest{
		LoadKW:      []float64{100},
		PriceEurKWh: []float64{5},
	}
	r.Assets.Grid.ImportLimitKW = 50
	r.Assets.Curtailment = model.CurtailmentParams{Fraction: 0.6, PenaltyEurKWh: 1}

	opt := newTestOptimizer()
	res, err := opt.RunOnGrid(context.Background(), tg, r)
	require.NoError(t, err)

	// Shedding at 1 beats importing at 5, up to the allowed fraction.
	assert.InDelta(t, 60, res.Records[0].CurtailedKWh, 1e-6)
	assert.InDelta(t, 40, res.Records[0].GridImportKWh, 1e-6)
	assert.InDelta(t, 60, res.Summary.CurtailmentPercent, 1e-6)
	assert.InDelta(t, 40, res.Summary.LoadServedKWh, 1e-6)

	// A tighter fraction cannot bridge the gap and the model is infeasible.
	r.Assets.Curtailment.Fraction = 0.4
	_, err = opt.RunOnGrid(context.Background(), tg, r)
	var infErr *model.InfeasibleModelError
	require.ErrorAs(t, err, &infErr)
	assert.Contains(t, infErr.Hints, "raise the grid import limit")
}

func TestRepeatedSolvesAgree(t *testing.T) {
	opt := newTestOptimizer()
	r := gridOnlyRequest()

	first, err := opt.Run(context.Background(), r)
	require.NoError(t, err)
	second, err := opt.Run(context.Background(), r)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Records, second.Records)
	assert.InDelta(t, first.ObjectiveValue, second.ObjectiveValue, 1e-9)
}

func TestCancelledContextReportsTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestOptimizer().Run(ctx, gridOnlyRequest())
	var toErr *model.SolverTimeoutError
	require.ErrorAs(t, err, &toErr)
}

func TestUnknownObjectiveRejected(t *testing.T) {
	r := gridOnlyRequest()
	r.Objective = model.Objective("profit")
	_, err := newTestOptimizer().Run(context.Background(), r)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "objective", vErr.Field)
}
