// Package lpdict exposes a solved linear program as a simplex dictionary.
//
// A Dictionary is a read-mostly projection over the state of an external LP
// engine: it partitions variables into basic and nonbasic sets, projects
// tableau rows, columns and reduced costs on demand, and applies a single
// caller-chosen pivot or appends a cutting-plane row. The numeric work
// (factorization, re-solving, dual values) always stays with the engine,
// consumed through the Backend interface.
//
// # Example
//
//	p := simplex.New("demo")
//	p.SetMaximize(true)
//	x0 := p.AddColumn("", 5.5, 0, false)
//	x1 := p.AddColumn("", 2.1, 0, false)
//	p.AddRow("", []int{x0, x1}, []float64{-1, 1}, 2)
//	p.AddRow("", []int{x0, x1}, []float64{8, 2}, 17)
//	if err := p.Solve(); err != nil {
//		log.Fatal(err)
//	}
//
//	d, err := lpdict.New(p)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(d.BasicVariables())   // [x_0 x_1]
//	fmt.Println(d.ObjectiveValue())   // 14.08
package lpdict

// BasisStatus classifies a variable within the current basis, as reported
// by the engine. Rows carry the status of their logical row variable: a
// nonbasic row at its upper bound is a binding ≤-constraint (slack zero).
type BasisStatus int

const (
	// BasisLower indicates a nonbasic variable held at its lower bound.
	BasisLower BasisStatus = iota
	// BasisBasic indicates a basic variable.
	BasisBasic
	// BasisUpper indicates a nonbasic variable held at its upper bound.
	BasisUpper
	// BasisFree indicates a nonbasic free variable.
	BasisFree
)

// String returns a human-readable representation of the basis status.
func (s BasisStatus) String() string {
	switch s {
	case BasisLower:
		return "Lower"
	case BasisBasic:
		return "Basic"
	case BasisUpper:
		return "Upper"
	case BasisFree:
		return "Free"
	default:
		return "Unknown"
	}
}

// Backend is the narrow query/command contract a dictionary needs from an
// LP engine. Implementations hold the single source of truth for all
// numeric values and status flags; the dictionary never caches them.
//
// Variables are addressed by a dense index in [0, NumCols()+NumRows()):
// indices below NumCols() are structural columns, the rest are row slacks,
// one per row in row order.
//
// Backends are not safe for concurrent use; callers sharing one backend
// across goroutines must serialize access themselves.
type Backend interface {
	// NumCols returns the number of structural columns.
	NumCols() int
	// NumRows returns the number of constraint rows.
	NumRows() int

	// ColName returns the name of column i, or "" when unnamed.
	ColName(i int) string
	// RowName returns the name of row i, or "" when unnamed.
	RowName(i int) string

	// ColLowerBound returns the lower bound of column i and whether the
	// bound is finite.
	ColLowerBound(i int) (float64, bool)
	// RowBounds returns the bounds of row i and whether each is finite.
	RowBounds(i int) (lower, upper float64, hasLower, hasUpper bool)

	// ColValue returns the primal value of column i.
	ColValue(i int) float64
	// RowActivity returns the primal activity of row i.
	RowActivity(i int) float64
	// ReducedCost returns the reduced cost of column i in the problem's
	// objective sense.
	ReducedCost(i int) float64
	// RowDual returns the dual value of row i.
	RowDual(i int) float64
	// ObjectiveValue returns the current objective value.
	ObjectiveValue() float64

	// TableauColumn returns B⁻¹·a for the column of variable i, ordered by
	// basic row (the order of BasicIndices).
	TableauColumn(i int) ([]float64, error)
	// TableauRow returns row r of B⁻¹·[A|I]: the coefficient of every
	// variable, basic and nonbasic, in the equation of the variable basic
	// at row r. Length NumCols()+NumRows().
	TableauRow(r int) ([]float64, error)
	// BasicIndices maps each basic row to the variable index basic there.
	BasicIndices() []int

	// Status returns the per-column and per-row basis status vectors.
	Status() (cols, rows []BasisStatus)
	// SetStatus commits modified status vectors back to the engine, which
	// re-factorizes the basis and recomputes its numeric state.
	SetStatus(cols, rows []BasisStatus) error

	// AddInequalityRow appends a ≤-row with the given sparse left-hand
	// side, no lower bound and the given upper bound. The engine names the
	// new row, marks it basic, and invalidates its solved state until the
	// next Solve.
	AddInequalityRow(index []int, value []float64, upper float64, name string, integer bool) error
	// Solve (re-)optimizes the problem.
	Solve() error
}
