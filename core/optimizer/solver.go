package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/enersim/gridopt/core/logger"
	"github.com/enersim/gridopt/core/model"
)

// SolveOptions bounds the solver driver. Zero values take the defaults below.
type SolveOptions struct {
	// TimeLimit is the wall-clock budget for one solve attempt.
	TimeLimit time.Duration
	// Tolerance is the simplex pivot tolerance.
	Tolerance float64
	// MIPGap is the relative optimality gap accepted by branch-and-bound.
	MIPGap float64
	// RelaxedGap is used for the single retry after a timeout.
	RelaxedGap float64
}

const (
	defaultTimeLimit  = 30 * time.Second
	defaultTolerance  = 1e-7
	defaultMIPGap     = 1e-4
	defaultRelaxedGap = 5e-2

	// integralityTol decides when a relaxed binary counts as integral.
	integralityTol = 1e-6
)

func (o *SolveOptions) setDefaults() {
	if o.TimeLimit <= 0 {
		o.TimeLimit = defaultTimeLimit
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	if o.MIPGap <= 0 {
		o.MIPGap = defaultMIPGap
	}
	if o.RelaxedGap <= 0 {
		o.RelaxedGap = defaultRelaxedGap
	}
}

// solution is the solver output consumed by result extraction.
type solution struct {
	status model.SolveStatus
	x      []float64
	obj    float64
}

// errInfeasible marks an infeasible relaxation inside the search; the driver
// converts the root occurrence into a model.InfeasibleModelError.
var errInfeasible = errors.New("relaxation infeasible")

// assemble materializes the model into the general form min c'x subject to
// G x <= h and A x = b. Bound overrides from branch-and-bound nodes replace
// the stored variable bounds for the listed columns.
func (m *lpModel) assemble(overrides map[int][2]float64) (c []float64, G *mat.Dense, h []float64, A *mat.Dense, b []float64) {
	nv := m.lay.numVars()

	bound := func(j int) (float64, float64) {
		if ov, ok := overrides[j]; ok {
			return ov[0], ov[1]
		}
		return m.lb[j], m.ub[j]
	}

	nIneq := len(m.le)
	for j := 0; j < nv; j++ {
		nIneq++ // lower bound row, usually -x <= 0
		if _, ub := bound(j); !math.IsInf(ub, 1) {
			nIneq++
		}
	}

	G = mat.NewDense(nIneq, nv, nil)
	h = make([]float64, nIneq)
	r := 0
	for _, le := range m.le {
		for col, v := range le.coef {
			G.Set(r, col, v)
		}
		h[r] = le.rhs
		r++
	}
	for j := 0; j < nv; j++ {
		lb, ub := bound(j)
		G.Set(r, j, -1)
		h[r] = -lb
		r++
		if !math.IsInf(ub, 1) {
			G.Set(r, j, 1)
			h[r] = ub
			r++
		}
	}

	A = mat.NewDense(len(m.eq), nv, nil)
	b = make([]float64, len(m.eq))
	for i, eq := range m.eq {
		for col, v := range eq.coef {
			A.Set(i, col, v)
		}
		b[i] = eq.rhs
	}

	c = make([]float64, nv)
	copy(c, m.obj)
	return c, G, h, A, b
}

// solveRelaxation runs one simplex solve of the (possibly bound-restricted)
// LP relaxation and recovers the original variable values from the standard
// form split.
func (m *lpModel) solveRelaxation(overrides map[int][2]float64, tol float64) ([]float64, float64, error) {
	c, G, h, A, b := m.assemble(overrides)
	cStd, aStd, bStd := lp.Convert(c, G, h, A, b)
	_, xStd, err := lp.Simplex(cStd, aStd, bStd, tol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, 0, errInfeasible
		}
		return nil, 0, fmt.Errorf("simplex: %w", err)
	}
	n := len(c)
	x := make([]float64, n)
	for j := range x {
		x[j] = xStd[j] - xStd[n+j]
	}
	return x, floats.Dot(c, x), nil
}

// Driver invokes the LP/MILP backend with a bounded wall-clock budget.
// Infeasibility is structural and never retried; a timeout without any
// solution is retried once with the relaxed optimality gap.
type Driver struct {
	opts SolveOptions
	log  logger.Logger
}

// NewDriver builds a solver driver; opts zero values take defaults.
func NewDriver(opts SolveOptions, log logger.Logger) *Driver {
	opts.setDefaults()
	return &Driver{opts: opts, log: log}
}

// Solve dispatches to the pure LP path or to branch-and-bound when diesel
// minimum-load indicators require integrality. Cancellation is cooperative at
// node boundaries: model assembly is fast relative to solving.
func (d *Driver) Solve(ctx context.Context, m *lpModel) (solution, error) {
	ctx, cancel := context.WithTimeout(ctx, d.opts.TimeLimit)
	defer cancel()

	if len(m.intCols) == 0 {
		return d.solveLP(ctx, m)
	}

	sol, err := d.branchAndBound(ctx, m, d.opts.MIPGap)
	if err == nil && sol.status == model.StatusTimeoutNoSolution {
		d.log.Warnf("solver timed out without a solution, retrying with relaxed gap %g", d.opts.RelaxedGap)
		ctx2, cancel2 := context.WithTimeout(context.Background(), d.opts.TimeLimit)
		defer cancel2()
		sol, err = d.branchAndBound(ctx2, m, d.opts.RelaxedGap)
		if err == nil && sol.status == model.StatusTimeoutNoSolution {
			return sol, &model.SolverTimeoutError{Limit: d.opts.TimeLimit, Retried: true}
		}
	}
	return sol, err
}

func (d *Driver) solveLP(ctx context.Context, m *lpModel) (solution, error) {
	if ctx.Err() != nil {
		return solution{status: model.StatusTimeoutNoSolution}, &model.SolverTimeoutError{Limit: d.opts.TimeLimit}
	}
	x, obj, err := m.solveRelaxation(nil, d.opts.Tolerance)
	if err != nil {
		if errors.Is(err, errInfeasible) {
			return solution{status: model.StatusInfeasible}, &model.InfeasibleModelError{
				Intervals: m.grid.Intervals,
				Step:      m.grid.Step,
				Hints:     m.infeasibilityHints(),
			}
		}
		return solution{}, err
	}
	return solution{status: model.StatusOptimal, x: x, obj: obj}, nil
}

type bbNode struct {
	overrides map[int][2]float64
}

func (n bbNode) child(col int, val float64) bbNode {
	ov := make(map[int][2]float64, len(n.overrides)+1)
	for k, v := range n.overrides {
		ov[k] = v
	}
	ov[col] = [2]float64{val, val}
	return bbNode{overrides: ov}
}

// branchAndBound explores the diesel on/off indicators depth-first, pruning
// with the incumbent objective plus the relative gap.
func (d *Driver) branchAndBound(ctx context.Context, m *lpModel, gap float64) (solution, error) {
	stack := []bbNode{{}}
	var (
		best     []float64
		bestObj  = math.Inf(1)
		haveBest bool
		timedOut bool
		rootDone bool
	)

	for len(stack) > 0 {
		if ctx.Err() != nil {
			timedOut = true
			break
		}
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, obj, err := m.solveRelaxation(node.overrides, d.opts.Tolerance)
		isRoot := !rootDone
		rootDone = true
		if err != nil {
			if errors.Is(err, errInfeasible) {
				if isRoot {
					return solution{status: model.StatusInfeasible}, &model.InfeasibleModelError{
						Intervals: m.grid.Intervals,
						Step:      m.grid.Step,
						Hints:     m.infeasibilityHints(),
					}
				}
				continue
			}
			return solution{}, err
		}

		if haveBest && obj >= bestObj-gap*math.Max(1, math.Abs(bestObj)) {
			continue
		}

		branchCol := -1
		worstFrac := integralityTol
		for _, col := range m.intCols {
			v := x[col]
			if ov, ok := node.overrides[col]; ok && ov[0] == ov[1] {
				continue
			}
			frac := math.Abs(v - math.Round(v))
			if frac > worstFrac {
				worstFrac = frac
				branchCol = col
			}
		}
		if branchCol < 0 {
			if obj < bestObj {
				bestObj = obj
				best = x
				haveBest = true
			}
			continue
		}

		stack = append(stack, node.child(branchCol, 1), node.child(branchCol, 0))
	}

	switch {
	case haveBest && !timedOut:
		return solution{status: model.StatusOptimal, x: best, obj: bestObj}, nil
	case haveBest && timedOut:
		return solution{status: model.StatusFeasibleSuboptimal, x: best, obj: bestObj}, nil
	case timedOut:
		return solution{status: model.StatusTimeoutNoSolution}, nil
	default:
		// Every branch was pruned infeasible below an LP-feasible root.
		return solution{status: model.StatusInfeasible}, &model.InfeasibleModelError{
			Intervals: m.grid.Intervals,
			Step:      m.grid.Step,
			Hints:     m.infeasibilityHints(),
		}
	}
}
