package simplex

import (
	"fmt"
	"math"

	"github.com/simplexkit/lpdict/lpdict"
)

// Problem implements lpdict.Backend. Numeric queries return zero values
// until the basis has been factorized by Solve or SetStatus; tableau
// queries report an error instead.
var _ lpdict.Backend = (*Problem)(nil)

// NumCols returns the number of structural columns.
func (p *Problem) NumCols() int { return len(p.cols) }

// NumRows returns the number of constraint rows.
func (p *Problem) NumRows() int { return len(p.rows) }

// ColName returns the name of column i, or "" when unnamed.
func (p *Problem) ColName(i int) string { return p.cols[i].name }

// RowName returns the name of row i, or "" when unnamed.
func (p *Problem) RowName(i int) string { return p.rows[i].name }

// ColLowerBound returns the lower bound of column i and whether it is
// finite.
func (p *Problem) ColLowerBound(i int) (float64, bool) {
	l := p.cols[i].lower
	return l, !math.IsInf(l, -1)
}

// RowBounds returns the bounds of row i and whether each is finite.
func (p *Problem) RowBounds(i int) (lower, upper float64, hasLower, hasUpper bool) {
	rw := p.rows[i]
	return rw.lower, rw.upper, !math.IsInf(rw.lower, -1), !math.IsInf(rw.upper, 1)
}

// ColValue returns the primal value of column i.
func (p *Problem) ColValue(i int) float64 {
	if !p.factorized {
		return 0
	}
	return p.colValue[i]
}

// RowActivity returns the primal activity of row i.
func (p *Problem) RowActivity(i int) float64 {
	if !p.factorized {
		return 0
	}
	return p.rowAct[i]
}

// ReducedCost returns the reduced cost of column i.
func (p *Problem) ReducedCost(i int) float64 {
	if !p.factorized {
		return 0
	}
	return p.redCost[i]
}

// RowDual returns the dual value of row i.
func (p *Problem) RowDual(i int) float64 {
	if !p.factorized {
		return 0
	}
	return p.duals[i]
}

// ObjectiveValue returns the objective at the current basis.
func (p *Problem) ObjectiveValue() float64 { return p.objective }

// BasicIndices maps each basic row to the variable index basic there.
func (p *Problem) BasicIndices() []int {
	out := make([]int, len(p.basicIdx))
	copy(out, p.basicIdx)
	return out
}

// TableauColumn returns B⁻¹·a for the column of variable v, in basic-row
// order.
func (p *Problem) TableauColumn(v int) ([]float64, error) {
	m := len(p.rows)
	if !p.factorized || p.binv == nil {
		return nil, newErrorMsg("TableauColumn", "basis not factorized")
	}
	if v < 0 || v >= len(p.cols)+m {
		return nil, newErrorMsg("TableauColumn", fmt.Sprintf("variable index %d out of range", v))
	}
	col := make([]float64, m)
	p.colVec(v, col)
	out := make([]float64, m)
	for r := 0; r < m; r++ {
		var s float64
		for k := 0; k < m; k++ {
			s += p.binv.At(r, k) * col[k]
		}
		out[r] = s
	}
	return out, nil
}

// TableauRow returns row r of B⁻¹·[A|I]: the coefficient of every
// variable in the equation of the variable basic at row r.
func (p *Problem) TableauRow(r int) ([]float64, error) {
	ncols, m := len(p.cols), len(p.rows)
	if !p.factorized || p.binv == nil {
		return nil, newErrorMsg("TableauRow", "basis not factorized")
	}
	if r < 0 || r >= m {
		return nil, newErrorMsg("TableauRow", fmt.Sprintf("row index %d out of range", r))
	}
	a := p.denseMatrix()
	out := make([]float64, ncols+m)
	for j := 0; j < ncols; j++ {
		var s float64
		for k := 0; k < m; k++ {
			s += p.binv.At(r, k) * a.At(k, j)
		}
		out[j] = s
	}
	for k := 0; k < m; k++ {
		out[ncols+k] = p.binv.At(r, k)
	}
	return out, nil
}

// Status returns copies of the per-column and per-row basis status
// vectors.
func (p *Problem) Status() (cols, rows []lpdict.BasisStatus) {
	cols = make([]lpdict.BasisStatus, len(p.colStatus))
	copy(cols, p.colStatus)
	rows = make([]lpdict.BasisStatus, len(p.rowStatus))
	copy(rows, p.rowStatus)
	return cols, rows
}

// SetStatus commits new status vectors and re-factorizes the basis they
// describe. Exactly NumRows variables must be flagged basic. Variables
// that stay basic keep their row assignment; newly basic variables fill
// the freed rows in increasing index order.
func (p *Problem) SetStatus(cols, rows []lpdict.BasisStatus) error {
	ncols, m := len(p.cols), len(p.rows)
	if len(cols) != ncols || len(rows) != m {
		return newErrorMsg("SetStatus", "status vector length mismatch")
	}

	isBasic := func(v int) bool {
		if v < ncols {
			return cols[v] == lpdict.BasisBasic
		}
		return rows[v-ncols] == lpdict.BasisBasic
	}
	nbasic := 0
	for v := 0; v < ncols+m; v++ {
		if isBasic(v) {
			nbasic++
		}
	}
	if nbasic != m {
		return newErrorMsg("SetStatus", fmt.Sprintf("%d variables flagged basic, want %d", nbasic, m))
	}

	// Keep surviving row assignments, fill freed rows with the newly
	// basic variables in increasing index order.
	assigned := make(map[int]bool, m)
	basicIdx := make([]int, m)
	var freed []int
	for r := 0; r < m; r++ {
		if r < len(p.basicIdx) && isBasic(p.basicIdx[r]) {
			basicIdx[r] = p.basicIdx[r]
			assigned[p.basicIdx[r]] = true
		} else {
			basicIdx[r] = -1
			freed = append(freed, r)
		}
	}
	next := 0
	for v := 0; v < ncols+m && next < len(freed); v++ {
		if isBasic(v) && !assigned[v] {
			basicIdx[freed[next]] = v
			next++
		}
	}

	p.colStatus = make([]lpdict.BasisStatus, ncols)
	copy(p.colStatus, cols)
	p.rowStatus = make([]lpdict.BasisStatus, m)
	copy(p.rowStatus, rows)
	p.basicIdx = basicIdx

	return p.refactorize()
}

// AddInequalityRow appends the ≤-row sum(value·x[index]) <= upper to the
// live problem. The new row's slack starts basic, so the committed basis
// stays square; the numeric state is re-factorized immediately, leaving
// the pre-extension solution visible until the next Solve.
func (p *Problem) AddInequalityRow(index []int, value []float64, upper float64, name string, integer bool) error {
	if _, err := p.addRow("AddInequalityRow", name, index, value, math.Inf(-1), upper, integer); err != nil {
		return err
	}
	if p.rowStatus != nil {
		p.rowStatus = append(p.rowStatus, lpdict.BasisBasic)
		p.basicIdx = append(p.basicIdx, len(p.cols)+len(p.rows)-1)
	}
	if p.factorized {
		return p.refactorize()
	}
	return nil
}
