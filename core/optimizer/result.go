package optimizer

import (
	"math"

	"github.com/enersim/gridopt/core/model"
)

// extractResult reads the solved variable values back into per-interval
// dispatch records and computes the summary KPIs. Every aggregation guards
// grid terms with max(0, .): imports and exports are separate variables and a
// net-flow shortcut would reintroduce the export-as-negative-cost bug.
func extractResult(m *lpModel, sol solution) ([]model.DispatchRecord, model.Summary) {
	lay := m.lay
	dt := m.grid.StepHours()
	a := m.assets

	records := make([]model.DispatchRecord, lay.T)
	var sum model.Summary
	var loadKWh, dischargeKWh float64

	pos := func(v float64) float64 { return math.Max(0, v) }

	for t := 0; t < lay.T; t++ {
		imp := pos(sol.x[lay.gridImp(t)])
		exp := pos(sol.x[lay.gridExp(t)])
		pv := pos(sol.x[lay.pv(t)])
		chg := pos(sol.x[lay.chg(t)])
		dis := pos(sol.x[lay.dis(t)])
		curt := pos(sol.x[lay.curt(t)])

		rec := model.DispatchRecord{
			Timestamp:           m.grid.TimeAt(t),
			LoadKWh:             m.series.LoadKW[t] * dt,
			SolarKWh:            pv * dt,
			GridImportKWh:       imp * dt,
			GridExportKWh:       exp * dt,
			BatteryChargeKWh:    chg * dt,
			BatteryDischargeKWh: dis * dt,
			CurtailedKWh:        curt * dt,
			SoC:                 sol.x[lay.soc(t)],
		}

		sum.GridImportCostEur += m.series.PriceEurKWh[t] * imp * dt
		sum.ExportRevenueEur += m.series.ExportPriceEurKWh[t] * exp * dt
		sum.CurtailmentCostEur += a.Curtailment.PenaltyEurKWh * curt * dt
		sum.OMCostEur += (a.PV.OMCostEurKWh*pv + a.Battery.OMCostEurKWh*(chg+dis)) * dt
		sum.TotalEmissionsKg += (a.Grid.EmissionKgKWh*imp + a.PV.EmissionKgKWh*pv + a.Battery.EmissionKgKWh*(chg+dis)) * dt

		if m.dieselEnabled {
			pd := pos(sol.x[lay.dieselP(t)])
			fuel := pos(sol.x[lay.dieselF(t)])
			rec.DieselKWh = pd * dt
			rec.DieselFuelL = fuel * dt
			sum.FuelCostEur += a.Diesel.FuelPriceEurL * fuel * dt
			sum.TotalEmissionsKg += a.Diesel.EmissionKgKWh * pd * dt
		}
		if m.hydrogenEnabled {
			ely := pos(sol.x[lay.elyP(t)])
			fc := pos(sol.x[lay.fcP(t)])
			rec.ElectrolyzerKWh = ely * dt
			rec.FuelCellKWh = fc * dt
			rec.TankKg = sol.x[lay.tank(t)]
			sum.OMCostEur += a.Hydrogen.OMCostEurKWh * (ely + fc) * dt
			sum.TotalEmissionsKg += a.Hydrogen.FuelCellEmissionKg * fc * dt
		}

		loadKWh += rec.LoadKWh
		dischargeKWh += rec.BatteryDischargeKWh
		sum.CurtailedKWh += rec.CurtailedKWh
		records[t] = rec
	}

	sum.TotalCostEur = sum.GridImportCostEur - sum.ExportRevenueEur +
		sum.FuelCostEur + sum.CurtailmentCostEur + sum.OMCostEur
	sum.LoadServedKWh = loadKWh - sum.CurtailedKWh
	if sum.LoadServedKWh > 0 {
		sum.CostPerKWhEur = sum.TotalCostEur / sum.LoadServedKWh
		sum.EmissionIntensityKg = sum.TotalEmissionsKg / sum.LoadServedKWh
	}
	if loadKWh > 0 {
		sum.CurtailmentPercent = 100 * sum.CurtailedKWh / loadKWh
	}
	if a.Battery.Enabled() {
		sum.BatteryCycles = dischargeKWh / a.Battery.CapacityKWh
	}
	return records, sum
}
