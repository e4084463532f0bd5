package optimizer

import (
	"math"

	"github.com/enersim/gridopt/core/model"
	"github.com/enersim/gridopt/core/pwl"
)

// row is one linear constraint, sparse over variable columns.
type row struct {
	coef map[int]float64
	rhs  float64
}

func newRow(rhs float64) row { return row{coef: make(map[int]float64), rhs: rhs} }

func (r row) add(col int, c float64) {
	if col < 0 {
		panic("optimizer: constraint references a disabled variable")
	}
	r.coef[col] += c
}

// lpModel is the assembled optimization problem: equality rows, extra
// inequality rows, per-variable bounds and the objective vector. All
// variables are non-negative; ub may be +Inf.
type lpModel struct {
	lay    layout
	grid   model.TimeGrid
	series model.SourceSeries
	assets model.AssetParameters

	eq []row
	le []row
	lb []float64
	ub []float64

	obj     []float64
	intCols []int

	elyCurve pwl.Curve
	fcCurve  pwl.Curve

	dieselEnabled   bool
	hydrogenEnabled bool
	batteryEnabled  bool
}

// buildModel emits every constraint family for every interval: power balance,
// PV availability, battery dynamics, diesel limits and fuel curve, hydrogen
// production/consumption/tank dynamics, curtailment and grid limits.
func buildModel(grid model.TimeGrid, series model.SourceSeries, req model.OptimizationRequest) (*lpModel, error) {
	assets := req.Assets
	diesel := req.EnableDiesel && assets.Diesel.MaxPowerKW > 0
	hydrogen := req.EnableHydrogen
	battery := assets.Battery.Enabled()

	var elyCurve, fcCurve pwl.Curve
	var err error
	if hydrogen {
		h := assets.Hydrogen
		if h.ElectrolyzerRatedKW <= 0 || h.FuelCellRatedKW <= 0 {
			return nil, &model.ConfigurationError{
				Parameter: "hydrogen",
				Reason:    "hydrogen participation requires both electrolyzer and fuel cell ratings",
			}
		}
		elyCurve, err = pwl.NewProductionCurve(h.ElectrolyzerCurve, h.LHVKWhKg, "hydrogen.electrolyzer_curve")
		if err != nil {
			return nil, err
		}
		fcCurve, err = pwl.NewConsumptionCurve(h.FuelCellCurve, h.LHVKWhKg, "hydrogen.fuel_cell_curve")
		if err != nil {
			return nil, err
		}
	}

	lay := newLayout(grid.Intervals, diesel, hydrogen, len(elyCurve.Segments), len(fcCurve.Segments))
	m := &lpModel{
		lay:             lay,
		grid:            grid,
		series:          series,
		assets:          assets,
		lb:              make([]float64, lay.numVars()),
		ub:              make([]float64, lay.numVars()),
		obj:             make([]float64, lay.numVars()),
		elyCurve:        elyCurve,
		fcCurve:         fcCurve,
		dieselEnabled:   diesel,
		hydrogenEnabled: hydrogen,
		batteryEnabled:  battery,
	}
	for i := range m.ub {
		m.ub[i] = math.Inf(1)
	}

	dt := grid.StepHours()
	etaC, etaD := 1.0, 1.0
	if battery {
		etaC = assets.Battery.ChargeEff
		etaD = assets.Battery.DischargeEff
	}

	for t := 0; t < grid.Intervals; t++ {
		m.ub[lay.gridImp(t)] = assets.Grid.ImportLimitKW
		m.ub[lay.gridExp(t)] = assets.Grid.ExportLimitKW
		m.ub[lay.pv(t)] = series.SolarAvailability[t] * assets.PV.CapacityKW
		m.ub[lay.curt(t)] = assets.Curtailment.Fraction * series.LoadKW[t]

		// Power balance: supply equals demand exactly, curtailment acting as
		// supply-side relief.
		bal := newRow(series.LoadKW[t])
		bal.add(lay.gridImp(t), 1)
		bal.add(lay.pv(t), 1)
		bal.add(lay.curt(t), 1)
		bal.add(lay.gridExp(t), -1)

		if battery {
			m.ub[lay.chg(t)] = assets.Battery.MaxChargeKW
			m.ub[lay.dis(t)] = assets.Battery.MaxDischargeKW
			m.lb[lay.soc(t)] = assets.Battery.MinSoC
			m.ub[lay.soc(t)] = assets.Battery.MaxSoC
			bal.add(lay.dis(t), etaD)
			bal.add(lay.chg(t), -1/etaC)

			// SoC evolves causally from the previous interval only.
			soc := newRow(0)
			soc.add(lay.soc(t), 1)
			if t == 0 {
				soc.rhs = req.InitialSoC
			} else {
				soc.add(lay.soc(t-1), -1)
			}
			soc.add(lay.chg(t), -etaC*dt/assets.Battery.CapacityKWh)
			soc.add(lay.dis(t), dt/(etaD*assets.Battery.CapacityKWh))
			m.eq = append(m.eq, soc)
		} else {
			m.ub[lay.chg(t)] = 0
			m.ub[lay.dis(t)] = 0
			m.ub[lay.soc(t)] = 0
		}

		if diesel {
			d := assets.Diesel
			m.ub[lay.dieselP(t)] = d.MaxPowerKW
			m.ub[lay.dieselOn(t)] = 1
			bal.add(lay.dieselP(t), 1)

			// Gate output between the floor and the rating while running.
			hi := newRow(0)
			hi.add(lay.dieselP(t), 1)
			hi.add(lay.dieselOn(t), -d.MaxPowerKW)
			m.le = append(m.le, hi)
			if d.MinPowerKW > 0 {
				lo := newRow(0)
				lo.add(lay.dieselP(t), -1)
				lo.add(lay.dieselOn(t), d.MinPowerKW)
				m.le = append(m.le, lo)
			}

			// Affine fuel curve with no-load burn.
			fuel := newRow(0)
			fuel.add(lay.dieselF(t), 1)
			fuel.add(lay.dieselP(t), -d.FuelSlopeLKWh)
			fuel.add(lay.dieselOn(t), -d.FuelIdleLH)
			m.eq = append(m.eq, fuel)
		}

		if hydrogen {
			h := assets.Hydrogen
			m.ub[lay.elyP(t)] = h.ElectrolyzerRatedKW
			m.ub[lay.fcP(t)] = h.FuelCellRatedKW
			m.ub[lay.tank(t)] = h.TankCapacityKg
			bal.add(lay.fcP(t), 1)
			bal.add(lay.elyP(t), -1)

			// Segment variables sum to device power; hydrogen flow is the
			// slope-weighted sum. Exact under the validated curve shape.
			elySum := newRow(0)
			elySum.add(lay.elyP(t), 1)
			elyFlow := newRow(0)
			elyFlow.add(lay.elyH2(t), 1)
			for i, seg := range m.elyCurve.Segments {
				m.ub[lay.elySeg(t, i)] = seg.WidthKW
				elySum.add(lay.elySeg(t, i), -1)
				elyFlow.add(lay.elySeg(t, i), -seg.Slope)
			}
			m.eq = append(m.eq, elySum, elyFlow)

			fcSum := newRow(0)
			fcSum.add(lay.fcP(t), 1)
			fcFlow := newRow(0)
			fcFlow.add(lay.fcH2(t), 1)
			for i, seg := range m.fcCurve.Segments {
				m.ub[lay.fcSeg(t, i)] = seg.WidthKW
				fcSum.add(lay.fcSeg(t, i), -1)
				fcFlow.add(lay.fcSeg(t, i), -seg.Slope)
			}
			m.eq = append(m.eq, fcSum, fcFlow)

			tank := newRow(0)
			tank.add(lay.tank(t), 1)
			if t == 0 {
				tank.rhs = req.InitialTankKg
			} else {
				tank.add(lay.tank(t-1), -1)
			}
			tank.add(lay.elyH2(t), -dt)
			tank.add(lay.fcH2(t), dt)
			m.eq = append(m.eq, tank)
		}

		m.eq = append(m.eq, bal)
	}

	m.intCols = lay.binaries(diesel && assets.Diesel.MinPowerKW > 0)
	return m, nil
}

// infeasibilityHints suggests structural relaxations for the common causes of
// an infeasible model.
func (m *lpModel) infeasibilityHints() []string {
	var hints []string
	if m.assets.Curtailment.Fraction == 0 {
		hints = append(hints, "enable curtailment")
	}
	if !m.dieselEnabled {
		hints = append(hints, "enable diesel or increase its capacity")
	}
	if m.assets.Grid.ImportLimitKW == 0 {
		hints = append(hints, "allow grid imports")
	} else if !math.IsInf(m.assets.Grid.ImportLimitKW, 1) {
		hints = append(hints, "raise the grid import limit")
	}
	return hints
}
