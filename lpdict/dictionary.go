package lpdict

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Dictionary is a simplex-dictionary view over a solved LP held by an
// external engine. It owns no numeric state: every query re-derives its
// answer from the backend, so results always reflect the engine's current
// basis. The only mutable state is the caller's entering/leaving selection.
//
// A Dictionary stays valid across Update and AddRow calls made through it.
// If the backend's shape changes behind its back, construct a new one.
type Dictionary struct {
	backend Backend
	syms    *symbols

	entering *Variable
	leaving  *Variable
}

// New constructs a dictionary bound to b, which must hold a problem in
// canonical standard form: every row a pure ≤-constraint and every
// structural variable with a finite lower bound. Returns ErrStandardForm
// otherwise.
func New(b Backend) (*Dictionary, error) {
	for i := 0; i < b.NumRows(); i++ {
		_, _, hasLower, hasUpper := b.RowBounds(i)
		if hasLower || !hasUpper {
			return nil, fmt.Errorf("row %d is not a pure upper-bound inequality: %w", i, ErrStandardForm)
		}
	}
	for i := 0; i < b.NumCols(); i++ {
		if _, ok := b.ColLowerBound(i); !ok {
			return nil, fmt.Errorf("column %d has no finite lower bound: %w", i, ErrStandardForm)
		}
	}
	syms, err := newSymbols(b)
	if err != nil {
		return nil, err
	}
	return &Dictionary{backend: b, syms: syms}, nil
}

// Backend returns the engine this dictionary is bound to.
func (d *Dictionary) Backend() Backend { return d.backend }

// SameBackend reports whether o is a view over the same engine instance.
// Two dictionaries over numerically identical but distinct problems are
// not the same.
func (d *Dictionary) SameBackend(o *Dictionary) bool {
	return o != nil && d.backend == o.backend
}

// Variables returns all variables in index order: structural columns
// first, row slacks second.
func (d *Dictionary) Variables() []Variable {
	out := make([]Variable, d.syms.len())
	copy(out, d.syms.vars)
	return out
}

// basisSet builds the bitmap of basic variable indices from the engine's
// current status vectors.
func (d *Dictionary) basisSet() *bitset.BitSet {
	cols, rows := d.backend.Status()
	set := bitset.New(uint(len(cols) + len(rows)))
	for i, st := range cols {
		if st == BasisBasic {
			set.Set(uint(i))
		}
	}
	ncols := len(cols)
	for i, st := range rows {
		if st == BasisBasic {
			set.Set(uint(ncols + i))
		}
	}
	return set
}

// BasicVariables returns every variable currently flagged basic, in
// increasing index order. Its length equals the row count whenever the
// engine's basis is consistent.
func (d *Dictionary) BasicVariables() []Variable {
	set := d.basisSet()
	out := make([]Variable, 0, d.backend.NumRows())
	for i := 0; i < d.syms.len(); i++ {
		if set.Test(uint(i)) {
			out = append(out, d.syms.at(i))
		}
	}
	return out
}

// NonbasicVariables returns the complement of BasicVariables, in
// increasing index order.
func (d *Dictionary) NonbasicVariables() []Variable {
	set := d.basisSet()
	out := make([]Variable, 0, d.backend.NumCols())
	for i := 0; i < d.syms.len(); i++ {
		if !set.Test(uint(i)) {
			out = append(out, d.syms.at(i))
		}
	}
	return out
}

// ConstantTerms returns the value of each basic variable, ordered to match
// BasicVariables. A basic slack's value is the row's upper bound minus its
// activity.
func (d *Dictionary) ConstantTerms() []float64 {
	ncols := d.backend.NumCols()
	basics := d.BasicVariables()
	out := make([]float64, len(basics))
	for i, v := range basics {
		if v.Kind == Structural {
			out[i] = d.backend.ColValue(v.Index)
		} else {
			row := v.Index - ncols
			_, upper, _, _ := d.backend.RowBounds(row)
			out[i] = upper - d.backend.RowActivity(row)
		}
	}
	return out
}

// ObjectiveCoefficients returns the objective-row coefficients of the
// dictionary: reduced costs of nonbasic structural variables and negated
// row duals of nonbasic slacks, ordered to match NonbasicVariables.
func (d *Dictionary) ObjectiveCoefficients() []float64 {
	ncols := d.backend.NumCols()
	nonbasics := d.NonbasicVariables()
	out := make([]float64, len(nonbasics))
	for i, v := range nonbasics {
		if v.Kind == Structural {
			out[i] = d.backend.ReducedCost(v.Index)
		} else {
			out[i] = -d.backend.RowDual(v.Index - ncols)
		}
	}
	return out
}

// ObjectiveValue returns the engine's current objective value.
func (d *Dictionary) ObjectiveValue() float64 {
	return d.backend.ObjectiveValue()
}

// Enter selects the variable named name as the candidate entering
// variable. The choice is only validated against the current basis when
// Update runs. Returns ErrUnknownVariable for a symbol not in the
// dictionary.
func (d *Dictionary) Enter(name string) error {
	v, ok := d.syms.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	d.entering = &v
	return nil
}

// Leave selects the variable named name as the candidate leaving variable.
// Returns ErrUnknownVariable for a symbol not in the dictionary.
func (d *Dictionary) Leave(name string) error {
	v, ok := d.syms.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	d.leaving = &v
	return nil
}

// Entering returns the currently selected entering variable, if any.
func (d *Dictionary) Entering() (Variable, bool) {
	if d.entering == nil {
		return Variable{}, false
	}
	return *d.entering, true
}

// Leaving returns the currently selected leaving variable, if any.
func (d *Dictionary) Leaving() (Variable, bool) {
	if d.leaving == nil {
		return Variable{}, false
	}
	return *d.leaving, true
}

// ClearSelection unsets both the entering and the leaving variable.
// Update never clears selections itself; after a pivot the caller either
// selects a fresh pair or calls ClearSelection. Reusing a stale selection
// against the new basis is caller error.
func (d *Dictionary) ClearSelection() {
	d.entering = nil
	d.leaving = nil
}

// EnteringCoefficients returns the tableau column of the selected entering
// variable: how much each basic variable decreases per unit increase of
// the entering one, ordered to match BasicVariables. Returns ErrNoEntering
// when no entering variable is chosen.
func (d *Dictionary) EnteringCoefficients() ([]float64, error) {
	if d.entering == nil {
		return nil, ErrNoEntering
	}
	col, err := d.backend.TableauColumn(d.entering.Index)
	if err != nil {
		return nil, fmt.Errorf("tableau column of %s: %w", d.entering.Name, err)
	}

	// TableauColumn is in basic-row order; reorder by variable index.
	pos := make(map[int]int)
	for i, v := range d.BasicVariables() {
		pos[v.Index] = i
	}
	out := make([]float64, len(pos))
	for r, idx := range d.backend.BasicIndices() {
		if p, ok := pos[idx]; ok && r < len(col) {
			out[p] = col[r]
		}
	}
	return out, nil
}

// LeavingCoefficients returns the tableau row currently occupied by the
// selected leaving variable, filtered and ordered to match
// NonbasicVariables. Returns ErrNoLeaving when no leaving variable is
// chosen, and an error wrapping ErrDegeneratePivot when the selection is
// not basic.
func (d *Dictionary) LeavingCoefficients() ([]float64, error) {
	if d.leaving == nil {
		return nil, ErrNoLeaving
	}
	row, err := d.leavingRow()
	if err != nil {
		return nil, err
	}
	full, err := d.backend.TableauRow(row)
	if err != nil {
		return nil, fmt.Errorf("tableau row of %s: %w", d.leaving.Name, err)
	}
	nonbasics := d.NonbasicVariables()
	out := make([]float64, len(nonbasics))
	for i, v := range nonbasics {
		if v.Index < len(full) {
			out[i] = full[v.Index]
		}
	}
	return out, nil
}

// leavingRow locates which basic row the leaving variable occupies.
func (d *Dictionary) leavingRow() (int, error) {
	for r, idx := range d.backend.BasicIndices() {
		if idx == d.leaving.Index {
			return r, nil
		}
	}
	return 0, fmt.Errorf("leaving variable %s is not basic: %w", d.leaving.Name, ErrDegeneratePivot)
}

// Update applies the selected pivot: it validates that the pivot
// coefficient (the entry of the leaving row under the entering column)
// is nonzero, flips the two status flags, and commits them to the engine,
// which re-factorizes for the next round of queries.
//
// Returns ErrNoEntering or ErrNoLeaving when a selection is missing, and
// ErrDegeneratePivot when the pair is incompatible. Selections are kept
// after a successful pivot; see ClearSelection.
func (d *Dictionary) Update() error {
	if d.entering == nil {
		return ErrNoEntering
	}
	if d.leaving == nil {
		return ErrNoLeaving
	}

	enterPos := -1
	for i, v := range d.NonbasicVariables() {
		if v.Index == d.entering.Index {
			enterPos = i
			break
		}
	}
	if enterPos < 0 {
		return fmt.Errorf("entering variable %s is not nonbasic: %w", d.entering.Name, ErrDegeneratePivot)
	}

	coefs, err := d.LeavingCoefficients()
	if err != nil {
		return err
	}
	if coefs[enterPos] == 0 {
		return fmt.Errorf("zero pivot element: %w", ErrDegeneratePivot)
	}

	ncols := d.backend.NumCols()
	cols, rows := d.backend.Status()
	setStatus := func(idx int, st BasisStatus) {
		if idx < ncols {
			cols[idx] = st
		} else {
			rows[idx-ncols] = st
		}
	}
	setStatus(d.entering.Index, BasisBasic)
	// A leaving column drops to its lower bound; a leaving row becomes a
	// binding constraint, its activity pinned at the upper bound.
	if d.leaving.Kind == Structural {
		setStatus(d.leaving.Index, BasisLower)
	} else {
		setStatus(d.leaving.Index, BasisUpper)
	}

	if err := d.backend.SetStatus(cols, rows); err != nil {
		return fmt.Errorf("commit pivot %s/%s: %w", d.entering.Name, d.leaving.Name, err)
	}
	return nil
}

// AddRow appends a new ≤-constraint over the structural columns, with a
// fresh slack variable named slackName. coeffs must cover every structural
// column (ErrShapeMismatch otherwise); zeros are dropped before the row is
// handed to the engine. The new slack starts basic. A slackName already in
// the dictionary is rejected with ErrDuplicateName before the engine is
// touched.
//
// AddRow does not re-solve: until the caller runs Backend.Solve, numeric
// queries still reflect the pre-extension solution and say nothing about
// the new row.
func (d *Dictionary) AddRow(coeffs []float64, constant float64, slackName string, integer bool) error {
	ncols := d.backend.NumCols()
	if len(coeffs) != ncols {
		return fmt.Errorf("%w: got %d coefficients for %d columns", ErrShapeMismatch, len(coeffs), ncols)
	}
	row := d.backend.NumRows()
	name := canonicalName(slackName, "w", row)
	if _, ok := d.syms.lookup(name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	var index []int
	var value []float64
	for i, c := range coeffs {
		if c != 0 {
			index = append(index, i)
			value = append(value, c)
		}
	}
	if err := d.backend.AddInequalityRow(index, value, constant, slackName, integer); err != nil {
		return fmt.Errorf("add row %q: %w", slackName, err)
	}

	return d.syms.append(Variable{
		Name:    name,
		Kind:    Slack,
		Index:   ncols + row,
		Integer: integer,
	})
}
