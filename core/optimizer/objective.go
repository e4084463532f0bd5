package optimizer

import "github.com/enersim/gridopt/core/model"

// defaultCurtailEmissionPenalty is the kg/kWh coefficient applied to curtailed
// energy under the emissions objective when the caller does not set one.
const defaultCurtailEmissionPenalty = 1000.0

// composeObjective fills the minimization vector for the selected goal. Only
// one objective is active per run; the inactive metric is recomputed from the
// solution during result extraction.
func composeObjective(m *lpModel, objective model.Objective) {
	switch objective {
	case model.ObjectiveEmissions:
		composeEmissions(m)
	default:
		composeCost(m)
	}
}

// composeCost charges grid imports at the import tariff and credits exports
// at the export tariff. Imports and exports are separate non-negative
// variables: net flow is never priced, so export revenue can never offset the
// import charge of another interval at the wrong rate.
func composeCost(m *lpModel) {
	dt := m.grid.StepHours()
	lay := m.lay
	a := m.assets
	for t := 0; t < lay.T; t++ {
		m.obj[lay.gridImp(t)] = m.series.PriceEurKWh[t] * dt
		m.obj[lay.gridExp(t)] = -m.series.ExportPriceEurKWh[t] * dt
		m.obj[lay.pv(t)] = a.PV.OMCostEurKWh * dt
		m.obj[lay.chg(t)] = a.Battery.OMCostEurKWh * dt
		m.obj[lay.dis(t)] = a.Battery.OMCostEurKWh * dt
		m.obj[lay.curt(t)] = a.Curtailment.PenaltyEurKWh * dt
		if m.dieselEnabled {
			m.obj[lay.dieselF(t)] = a.Diesel.FuelPriceEurL * dt
		}
		if m.hydrogenEnabled {
			m.obj[lay.elyP(t)] = a.Hydrogen.OMCostEurKWh * dt
			m.obj[lay.fcP(t)] = a.Hydrogen.OMCostEurKWh * dt
		}
	}
}

// composeEmissions sums per-source emission factors over served power and
// battery throughput, with a large penalty on curtailed energy so the solver
// does not shed load to make the plant look clean.
func composeEmissions(m *lpModel) {
	dt := m.grid.StepHours()
	lay := m.lay
	a := m.assets
	curtPenalty := a.Curtailment.EmissionPenaltyKgKWh
	if curtPenalty <= 0 {
		curtPenalty = defaultCurtailEmissionPenalty
	}
	for t := 0; t < lay.T; t++ {
		m.obj[lay.gridImp(t)] = a.Grid.EmissionKgKWh * dt
		m.obj[lay.pv(t)] = a.PV.EmissionKgKWh * dt
		m.obj[lay.chg(t)] = a.Battery.EmissionKgKWh * dt
		m.obj[lay.dis(t)] = a.Battery.EmissionKgKWh * dt
		m.obj[lay.curt(t)] = curtPenalty * dt
		if m.dieselEnabled {
			m.obj[lay.dieselP(t)] = a.Diesel.EmissionKgKWh * dt
		}
		if m.hydrogenEnabled {
			m.obj[lay.fcP(t)] = a.Hydrogen.FuelCellEmissionKg * dt
		}
	}
}
