package simplex

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/simplexkit/lpdict/lpdict"
	"github.com/simplexkit/lpdict/logger"
)

// SolveOption configures a Solve call.
type SolveOption func(*solveConfig)

type solveConfig struct {
	maxIter int
	tol     float64
	log     zerolog.Logger
}

func defaultSolveConfig() *solveConfig {
	return &solveConfig{
		maxIter: 10000,
		tol:     1e-9,
		log:     logger.Logger(),
	}
}

// WithMaxIterations caps the number of simplex pivots.
func WithMaxIterations(n int) SolveOption {
	return func(c *solveConfig) {
		c.maxIter = n
	}
}

// WithPivotTolerance sets the threshold below which a reduced cost or
// pivot element is treated as zero.
func WithPivotTolerance(tol float64) SolveOption {
	return func(c *solveConfig) {
		c.tol = tol
	}
}

// WithLogger routes solve progress to l instead of the package logger.
func WithLogger(l zerolog.Logger) SolveOption {
	return func(c *solveConfig) {
		c.log = l
	}
}

// Solve optimizes the problem with the default options. It is the
// parameterless entry point required by lpdict.Backend; use SolveWith to
// tune the run.
func (p *Problem) Solve() error {
	return p.SolveWith()
}

// SolveWith optimizes the problem with Bland's-rule primal simplex,
// starting cold from the slack basis. On success the basis state backing
// the lpdict.Backend queries is fully populated.
//
// Only canonical standard form is solvable: ≤-rows and columns bounded
// below. SolveWith fails on anything else, on unbounded problems, and
// when the iteration cap is hit.
func (p *Problem) SolveWith(opts ...SolveOption) error {
	cfg := defaultSolveConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.log.With().Str("problem", p.name).Logger()

	for r, rw := range p.rows {
		if !math.IsInf(rw.lower, -1) || math.IsInf(rw.upper, 1) {
			return newErrorMsg("Solve", fmt.Sprintf("row %d is not a pure upper-bound inequality", r))
		}
	}
	for j, c := range p.cols {
		if math.IsInf(c.lower, -1) {
			return newErrorMsg("Solve", fmt.Sprintf("column %d has no lower bound", j))
		}
	}

	ncols, m := len(p.cols), len(p.rows)
	p.colStatus = make([]lpdict.BasisStatus, ncols)
	for j := range p.colStatus {
		p.colStatus[j] = lpdict.BasisLower
	}
	p.rowStatus = make([]lpdict.BasisStatus, m)
	p.basicIdx = make([]int, m)
	for r := range p.rowStatus {
		p.rowStatus[r] = lpdict.BasisBasic
		p.basicIdx[r] = ncols + r
	}

	for iter := 0; ; iter++ {
		if iter >= cfg.maxIter {
			return newErrorMsg("Solve", "iteration limit reached")
		}
		if err := p.refactorize(); err != nil {
			return err
		}
		enter := p.priceEntering(cfg.tol)
		if enter < 0 {
			log.Debug().Int("iterations", iter).Float64("objective", p.objective).Msg("optimal")
			return nil
		}
		leaveRow, ok := p.ratioTest(enter, cfg.tol)
		if !ok {
			return newErrorMsg("Solve", "problem is unbounded")
		}
		leave := p.basicIdx[leaveRow]
		p.pivot(enter, leave, leaveRow)
		log.Debug().Int("iter", iter).Int("entering", enter).Int("leaving", leave).Msg("pivot")
	}
}

// pivot swaps one nonbasic variable into the basic row leaveRow.
func (p *Problem) pivot(enter, leave, leaveRow int) {
	ncols := len(p.cols)
	p.basicIdx[leaveRow] = enter
	if enter < ncols {
		p.colStatus[enter] = lpdict.BasisBasic
	} else {
		p.rowStatus[enter-ncols] = lpdict.BasisBasic
	}
	if leave < ncols {
		p.colStatus[leave] = lpdict.BasisLower
	} else {
		// A leaving row becomes binding: activity pinned at the upper bound.
		p.rowStatus[leave-ncols] = lpdict.BasisUpper
	}
}

// refactorize rebuilds the basis inverse for the current basicIdx and
// recomputes the primal solution, activities, duals, reduced costs and
// objective. It is the single entry point for both cold solves and warm
// basis commits.
func (p *Problem) refactorize() error {
	ncols, m := len(p.cols), len(p.rows)
	p.colValue = make([]float64, ncols)
	p.rowAct = make([]float64, m)
	p.duals = make([]float64, m)
	p.redCost = make([]float64, ncols)

	// Nonbasic structural variables sit at their lower bound (free ones
	// at zero).
	for j, c := range p.cols {
		if p.colStatus[j] != lpdict.BasisBasic {
			if math.IsInf(c.lower, -1) {
				p.colValue[j] = 0
			} else {
				p.colValue[j] = c.lower
			}
		}
	}

	if m > 0 {
		b := mat.NewDense(m, m, nil)
		col := make([]float64, m)
		for r, v := range p.basicIdx {
			p.colVec(v, col)
			b.SetCol(r, col)
		}
		var binv mat.Dense
		if err := binv.Inverse(b); err != nil {
			return newErrorMsg("Factorize", "singular basis matrix")
		}
		p.binv = &binv

		// Nonbasic slacks are zero, so the effective right-hand side is
		// the row bound net of nonbasic structural contributions.
		rhs := mat.NewVecDense(m, nil)
		for r, rw := range p.rows {
			s := rw.upper
			for k, j := range rw.index {
				if p.colStatus[j] != lpdict.BasisBasic {
					s -= rw.value[k] * p.colValue[j]
				}
			}
			rhs.SetVec(r, s)
		}
		var xb mat.VecDense
		xb.MulVec(p.binv, rhs)
		for r, v := range p.basicIdx {
			if v < ncols {
				p.colValue[v] = xb.AtVec(r)
			}
		}

		for r, rw := range p.rows {
			var act float64
			for k, j := range rw.index {
				act += rw.value[k] * p.colValue[j]
			}
			p.rowAct[r] = act
		}

		// y = c_B·B⁻¹ with zero costs on slacks.
		for r := 0; r < m; r++ {
			var y float64
			for k, v := range p.basicIdx {
				if v < ncols {
					y += p.cols[v].cost * p.binv.At(k, r)
				}
			}
			p.duals[r] = y
		}
	} else {
		p.binv = nil
	}

	a := p.denseMatrix()
	for j, c := range p.cols {
		d := c.cost
		for r := 0; r < m; r++ {
			d -= p.duals[r] * a.At(r, j)
		}
		p.redCost[j] = d
	}

	p.objective = 0
	for j, c := range p.cols {
		p.objective += c.cost * p.colValue[j]
	}
	p.factorized = true
	return nil
}

// priceEntering returns the lowest-index nonbasic variable with an
// improving reduced cost, or -1 at optimality. Lowest index is Bland's
// anti-cycling rule.
func (p *Problem) priceEntering(tol float64) int {
	ncols, m := len(p.cols), len(p.rows)
	for v := 0; v < ncols+m; v++ {
		var st lpdict.BasisStatus
		var d float64
		if v < ncols {
			st = p.colStatus[v]
			d = p.redCost[v]
		} else {
			st = p.rowStatus[v-ncols]
			d = -p.duals[v-ncols]
		}
		if st == lpdict.BasisBasic {
			continue
		}
		if (p.maximize && d > tol) || (!p.maximize && d < -tol) {
			return v
		}
	}
	return -1
}

// ratioTest returns the basic row whose variable hits its lower bound
// first as the entering variable increases, preferring the smallest
// variable index on ties (Bland). ok is false when no basic variable
// blocks the ray, i.e. the problem is unbounded in that direction.
func (p *Problem) ratioTest(enter int, tol float64) (leaveRow int, ok bool) {
	ncols, m := len(p.cols), len(p.rows)
	if m == 0 || p.binv == nil {
		return -1, false
	}
	dir := make([]float64, m)
	p.colVec(enter, dir)
	u := mat.NewVecDense(m, dir)
	var bu mat.VecDense
	bu.MulVec(p.binv, u)

	leaveRow, ok = -1, false
	best := math.Inf(1)
	for r := 0; r < m; r++ {
		step := bu.AtVec(r)
		if step <= tol {
			continue
		}
		v := p.basicIdx[r]
		var value, lower float64
		if v < ncols {
			value, lower = p.colValue[v], p.cols[v].lower
		} else {
			rw := p.rows[v-ncols]
			value, lower = rw.upper-p.rowAct[v-ncols], 0
		}
		t := (value - lower) / step
		if t < best-tol || (math.Abs(t-best) <= tol && (leaveRow < 0 || v < p.basicIdx[leaveRow])) {
			best = t
			leaveRow, ok = r, true
		}
	}
	return leaveRow, ok
}
