package lpdict

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Snapshot is a static copy of a dictionary at one basis: the full
// coefficient matrix together with the constant and objective rows.
// Unlike the Dictionary it detaches from the engine entirely, so it can
// be kept, compared or rendered while the live problem moves on.
type Snapshot struct {
	// Coefficients has one row per basic variable and one column per
	// nonbasic variable, in the order of Basic and Nonbasic. It is nil
	// when either side is empty.
	Coefficients *mat.Dense
	// Constants are the values of the basic variables.
	Constants []float64
	// ObjectiveRow holds the objective coefficients of the nonbasic
	// variables.
	ObjectiveRow []float64
	// ObjectiveValue is the objective at this basis.
	ObjectiveValue float64

	Basic    []Variable
	Nonbasic []Variable
}

// Tableau captures the current dictionary as a Snapshot by projecting
// every basic variable's row. The entering/leaving selection is left
// untouched.
func (d *Dictionary) Tableau() (*Snapshot, error) {
	basics := d.BasicVariables()
	nonbasics := d.NonbasicVariables()

	nonbasicPos := make(map[int]int, len(nonbasics))
	for i, v := range nonbasics {
		nonbasicPos[v.Index] = i
	}

	// mat.NewDense rejects zero lengths; an empty side leaves the matrix
	// nil.
	var coefs *mat.Dense
	if len(basics) > 0 && len(nonbasics) > 0 {
		coefs = mat.NewDense(len(basics), len(nonbasics), nil)
	}
	basicRow := make(map[int]int, len(basics))
	for i, v := range basics {
		basicRow[v.Index] = i
	}
	for r, idx := range d.backend.BasicIndices() {
		i, ok := basicRow[idx]
		if !ok {
			return nil, fmt.Errorf("tableau: basic row %d holds unknown variable index %d", r, idx)
		}
		full, err := d.backend.TableauRow(r)
		if err != nil {
			return nil, fmt.Errorf("tableau: row of %s: %w", d.syms.at(idx).Name, err)
		}
		for j, v := range full {
			if p, ok := nonbasicPos[j]; ok {
				coefs.Set(i, p, v)
			}
		}
	}

	return &Snapshot{
		Coefficients:   coefs,
		Constants:      d.ConstantTerms(),
		ObjectiveRow:   d.ObjectiveCoefficients(),
		ObjectiveValue: d.ObjectiveValue(),
		Basic:          basics,
		Nonbasic:       nonbasics,
	}, nil
}
