// Package simplex implements a dense, pure-Go primal simplex engine for
// linear programs in canonical standard form: variables bounded below and
// ≤-constraints. It exists to back lpdict dictionaries with a fully
// inspectable engine: it satisfies lpdict.Backend, including tableau
// queries, basis-status commits and warm re-factorization.
//
// The engine keeps the whole problem dense and re-factorizes the basis
// with an explicit inverse, which is fine for the interactive,
// small-to-medium problems dictionaries are used on and keeps every
// intermediate quantity observable.
package simplex

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/simplexkit/lpdict/lpdict"
)

// Error describes a failed engine operation.
type Error struct {
	Op  string // operation that failed (e.g. "Solve", "AddRow")
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("simplex: %s failed: %s", e.Op, e.Msg)
}

func newErrorMsg(op, msg string) error {
	return &Error{Op: op, Msg: msg}
}

type column struct {
	name    string
	cost    float64
	lower   float64 // -Inf when the column is free below
	integer bool
}

type row struct {
	name    string
	index   []int
	value   []float64
	lower   float64 // -Inf for standard-form rows
	upper   float64
	integer bool // integrality of the row's slack
}

// Problem is a linear program plus, once solved, the basis state every
// lpdict.Backend query reads from. The zero value is not usable; call New.
//
// A Problem is not safe for concurrent use.
type Problem struct {
	name     string
	maximize bool
	cols     []column
	rows     []row

	// Basis state, valid while factorized is true.
	factorized bool
	colStatus  []lpdict.BasisStatus
	rowStatus  []lpdict.BasisStatus
	basicIdx   []int      // basic row -> variable index
	binv       *mat.Dense // inverse of the basis matrix
	colValue   []float64  // structural primal values
	rowAct     []float64  // row activities
	duals      []float64  // row duals y = c_B·B⁻¹
	redCost    []float64  // structural reduced costs c_j − y·a_j
	objective  float64
}

// New creates an empty minimization problem. The name is only used in
// logs.
func New(name string) *Problem {
	return &Problem{name: name}
}

// Name returns the problem name.
func (p *Problem) Name() string { return p.name }

// SetMaximize switches the objective sense.
func (p *Problem) SetMaximize(maximize bool) { p.maximize = maximize }

// AddColumn appends a structural variable with the given objective cost
// and lower bound (use math.Inf(-1) for a free column) and returns its
// index. Columns must be added before rows that reference them.
func (p *Problem) AddColumn(name string, cost, lower float64, integer bool) int {
	p.cols = append(p.cols, column{name: name, cost: cost, lower: lower, integer: integer})
	return len(p.cols) - 1
}

// AddRow appends the ≤-constraint sum(value·x[index]) <= upper and returns
// its row index. The sparse index and value slices must have equal length
// and reference existing columns.
func (p *Problem) AddRow(name string, index []int, value []float64, upper float64) (int, error) {
	return p.addRow("AddRow", name, index, value, math.Inf(-1), upper, false)
}

// AddDenseRow appends the ≤-constraint sum(coeffs·x) <= upper from a dense
// coefficient vector. Zero coefficients are filtered out.
func (p *Problem) AddDenseRow(name string, coeffs []float64, upper float64) (int, error) {
	var index []int
	var value []float64
	for i, c := range coeffs {
		if c != 0 {
			index = append(index, i)
			value = append(value, c)
		}
	}
	return p.addRow("AddDenseRow", name, index, value, math.Inf(-1), upper, false)
}

// AddBoundedRow appends a constraint with explicit lower and upper bounds.
// Rows with a finite lower bound are representable but not solvable by
// this engine; Solve rejects them.
func (p *Problem) AddBoundedRow(name string, index []int, value []float64, lower, upper float64) (int, error) {
	return p.addRow("AddBoundedRow", name, index, value, lower, upper, false)
}

func (p *Problem) addRow(op, name string, index []int, value []float64, lower, upper float64, integer bool) (int, error) {
	if len(index) != len(value) {
		return 0, newErrorMsg(op, "index and value must have same length")
	}
	for _, i := range index {
		if i < 0 || i >= len(p.cols) {
			return 0, newErrorMsg(op, fmt.Sprintf("column index %d out of range", i))
		}
	}
	p.rows = append(p.rows, row{
		name: name, index: index, value: value,
		lower: lower, upper: upper, integer: integer,
	})
	return len(p.rows) - 1, nil
}

// colVec writes the equality-form column of variable v into dst: the
// constraint column for a structural variable, a slack unit vector
// otherwise.
func (p *Problem) colVec(v int, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	if v < len(p.cols) {
		for r, rw := range p.rows {
			for k, j := range rw.index {
				if j == v {
					dst[r] += rw.value[k]
				}
			}
		}
		return
	}
	dst[v-len(p.cols)] = 1
}

// denseMatrix materializes the structural constraint matrix. Dimensions
// are padded to one because mat.NewDense rejects zero lengths; callers
// never index past the true shape.
func (p *Problem) denseMatrix() *mat.Dense {
	a := mat.NewDense(max(len(p.rows), 1), max(len(p.cols), 1), nil)
	for r, rw := range p.rows {
		for k, j := range rw.index {
			a.Set(r, j, a.At(r, j)+rw.value[k])
		}
	}
	return a
}
