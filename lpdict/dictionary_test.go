package lpdict_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simplexkit/lpdict/lpdict"
	"github.com/simplexkit/lpdict/simplex"
)

func names(vs []lpdict.Variable) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name
	}
	return out
}

// newTwoVar builds and solves
//
//	Max    f  = 5.5x_0 + 2.1x_1
//	s.t.        -x_0 +  x_1 <=  2
//	            8x_0 + 2x_1 <= 17
//	x_0, x_1 >= 0
//
// Optimum: x = (1.3, 3.3), f = 14.08, both rows binding.
func newTwoVar(t *testing.T) (*simplex.Problem, *lpdict.Dictionary) {
	t.Helper()
	p := simplex.New("twovar")
	p.SetMaximize(true)
	x0 := p.AddColumn("", 5.5, 0, false)
	x1 := p.AddColumn("", 2.1, 0, false)
	_, err := p.AddRow("", []int{x0, x1}, []float64{-1, 1}, 2)
	require.NoError(t, err)
	_, err = p.AddRow("", []int{x0, x1}, []float64{8, 2}, 17)
	require.NoError(t, err)
	require.NoError(t, p.Solve())

	d, err := lpdict.New(p)
	require.NoError(t, err)
	return p, d
}

// newFourVar builds and solves
//
//	Max    f  = 2x_0 + 3x_1 + 4x_2 + 13x_3
//	s.t.         x_0 +  x_1 - 7x_2 +   x_3 <= 22
//	                    x_1 + 2x_2 -   x_3 <= 13
//	            5x_0        +  x_2         <= 11
//	x >= 0
//
// Optimum: x = (0, 0, 11, 99), f = 1331, basis {x_2, x_3, w_1}.
func newFourVar(t *testing.T) (*simplex.Problem, *lpdict.Dictionary) {
	t.Helper()
	p := simplex.New("fourvar")
	p.SetMaximize(true)
	for _, cost := range []float64{2, 3, 4, 13} {
		p.AddColumn("", cost, 0, false)
	}
	rows := [][]float64{
		{1, 1, -7, 1},
		{0, 1, 2, -1},
		{5, 0, 1, 0},
	}
	for i, coeffs := range rows {
		_, err := p.AddDenseRow("", coeffs, []float64{22, 13, 11}[i])
		require.NoError(t, err)
	}
	require.NoError(t, p.Solve())

	d, err := lpdict.New(p)
	require.NoError(t, err)
	return p, d
}

func TestTableauSlackOnly(t *testing.T) {
	// A problem with no structural columns still has a dictionary: its
	// one slack is basic and the nonbasic side is empty.
	p := simplex.New("slackonly")
	_, err := p.AddRow("", nil, nil, 5)
	require.NoError(t, err)
	require.NoError(t, p.Solve())

	d, err := lpdict.New(p)
	require.NoError(t, err)
	require.Equal(t, []string{"w_0"}, names(d.BasicVariables()))
	require.Empty(t, d.NonbasicVariables())

	snap, err := d.Tableau()
	require.NoError(t, err)
	require.Nil(t, snap.Coefficients)
	require.InDeltaSlice(t, []float64{5}, snap.Constants, 1e-9)
	require.Empty(t, snap.ObjectiveRow)
	require.InDelta(t, 0, snap.ObjectiveValue, 1e-9)
}

func TestNewRejectsRangedRow(t *testing.T) {
	p := simplex.New("ranged")
	x := p.AddColumn("", 1, 0, false)
	_, err := p.AddBoundedRow("", []int{x}, []float64{1}, 5, 15)
	require.NoError(t, err)

	_, err = lpdict.New(p)
	require.ErrorIs(t, err, lpdict.ErrStandardForm)
}

func TestNewRejectsFreeColumn(t *testing.T) {
	p := simplex.New("free")
	p.AddColumn("", 1, math.Inf(-1), false)

	_, err := lpdict.New(p)
	require.ErrorIs(t, err, lpdict.ErrStandardForm)
}

func TestOptimalDictionary(t *testing.T) {
	_, d := newTwoVar(t)

	require.Equal(t, []string{"x_0", "x_1"}, names(d.BasicVariables()))
	require.Equal(t, []string{"w_0", "w_1"}, names(d.NonbasicVariables()))
	require.InDeltaSlice(t, []float64{1.3, 3.3}, d.ConstantTerms(), 1e-9)
	require.InDeltaSlice(t, []float64{-0.58, -0.76}, d.ObjectiveCoefficients(), 1e-9)
	require.InDelta(t, 14.08, d.ObjectiveValue(), 1e-9)
}

func TestVariableNaming(t *testing.T) {
	p := simplex.New("named")
	p.SetMaximize(true)
	a := p.AddColumn("alpha", 1, 0, false)
	b := p.AddColumn("", 1, 0, false)
	_, err := p.AddRow("budget", []int{a, b}, []float64{1, 1}, 10)
	require.NoError(t, err)
	_, err = p.AddRow("", []int{a}, []float64{1}, 4)
	require.NoError(t, err)
	require.NoError(t, p.Solve())

	d, err := lpdict.New(p)
	require.NoError(t, err)

	require.Equal(t, []string{"alpha", "x_1", "budget", "w_1"}, names(d.Variables()))
	v := d.Variables()[2]
	require.Equal(t, lpdict.Slack, v.Kind)
	require.Equal(t, 2, v.Index)
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	// A user-chosen column name colliding with a synthesized slack name
	// would break the name-to-index bijection.
	p := simplex.New("dup")
	p.SetMaximize(true)
	x := p.AddColumn("w_0", 1, 0, false)
	_, err := p.AddRow("", []int{x}, []float64{1}, 4)
	require.NoError(t, err)
	require.NoError(t, p.Solve())

	_, err = lpdict.New(p)
	require.ErrorIs(t, err, lpdict.ErrDuplicateName)
}

func TestAddRowRejectsDuplicateSlackName(t *testing.T) {
	p, d := newTwoVar(t)

	err := d.AddRow([]float64{1, 1}, 4, "x_0", false)
	require.ErrorIs(t, err, lpdict.ErrDuplicateName)
	// The engine was not touched.
	require.Equal(t, 2, p.NumRows())
	require.Len(t, d.Variables(), 4)
}

func TestSelectionLifecycle(t *testing.T) {
	_, d := newTwoVar(t)

	_, ok := d.Entering()
	require.False(t, ok)
	_, ok = d.Leaving()
	require.False(t, ok)

	require.NoError(t, d.Enter("w_0"))
	require.NoError(t, d.Leave("x_0"))

	enter, ok := d.Entering()
	require.True(t, ok)
	require.Equal(t, "w_0", enter.Name)
	require.Equal(t, lpdict.Slack, enter.Kind)
	leave, ok := d.Leaving()
	require.True(t, ok)
	require.Equal(t, "x_0", leave.Name)

	d.ClearSelection()
	_, ok = d.Entering()
	require.False(t, ok)
	_, ok = d.Leaving()
	require.False(t, ok)
}

func TestUnknownVariable(t *testing.T) {
	_, d := newTwoVar(t)

	require.ErrorIs(t, d.Enter("z_9"), lpdict.ErrUnknownVariable)
	require.ErrorIs(t, d.Leave("z_9"), lpdict.ErrUnknownVariable)
}

func TestMissingSelection(t *testing.T) {
	_, d := newTwoVar(t)

	_, err := d.EnteringCoefficients()
	require.ErrorIs(t, err, lpdict.ErrNoEntering)
	_, err = d.LeavingCoefficients()
	require.ErrorIs(t, err, lpdict.ErrNoLeaving)
	require.ErrorIs(t, d.Update(), lpdict.ErrNoEntering)

	require.NoError(t, d.Enter("w_0"))
	require.ErrorIs(t, d.Update(), lpdict.ErrNoLeaving)
}

func TestPivotCoefficients(t *testing.T) {
	_, d := newFourVar(t)

	require.Equal(t, []string{"x_2", "x_3", "w_1"}, names(d.BasicVariables()))
	require.Equal(t, []string{"x_0", "x_1", "w_0", "w_2"}, names(d.NonbasicVariables()))
	require.InDeltaSlice(t, []float64{11, 99, 90}, d.ConstantTerms(), 1e-9)
	require.InDeltaSlice(t, []float64{-486, -10, -13, -95}, d.ObjectiveCoefficients(), 1e-9)
	require.InDelta(t, 1331, d.ObjectiveValue(), 1e-9)

	require.NoError(t, d.Enter("x_0"))
	col, err := d.EnteringCoefficients()
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{5, 36, 26}, col, 1e-9)

	require.NoError(t, d.Leave("x_2"))
	row, err := d.LeavingCoefficients()
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{5, 0, 0, 1}, row, 1e-9)

	require.NoError(t, d.Leave("x_3"))
	row, err = d.LeavingCoefficients()
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{36, 1, 1, 7}, row, 1e-9)
}

func TestUpdate(t *testing.T) {
	_, d := newFourVar(t)

	require.NoError(t, d.Enter("x_0"))
	require.NoError(t, d.Leave("x_2"))
	require.NoError(t, d.Update())

	require.Equal(t, []string{"x_0", "x_3", "w_1"}, names(d.BasicVariables()))
	require.Equal(t, []string{"x_1", "x_2", "w_0", "w_2"}, names(d.NonbasicVariables()))
	require.InDeltaSlice(t, []float64{2.2, 19.8, 32.8}, d.ConstantTerms(), 1e-9)
	require.InDelta(t, 261.8, d.ObjectiveValue(), 1e-9)

	// Update keeps the selection; the caller clears it.
	enter, ok := d.Entering()
	require.True(t, ok)
	require.Equal(t, "x_0", enter.Name)
}

func TestUpdateZeroPivot(t *testing.T) {
	_, d := newFourVar(t)

	// The x_2 row has a zero coefficient under x_1.
	require.NoError(t, d.Enter("x_1"))
	require.NoError(t, d.Leave("x_2"))
	require.ErrorIs(t, d.Update(), lpdict.ErrDegeneratePivot)
}

func TestUpdateEnteringAlreadyBasic(t *testing.T) {
	_, d := newFourVar(t)

	require.NoError(t, d.Enter("x_2"))
	require.NoError(t, d.Leave("x_3"))
	require.ErrorIs(t, d.Update(), lpdict.ErrDegeneratePivot)
}

func TestUpdateLeavingNotBasic(t *testing.T) {
	_, d := newFourVar(t)

	require.NoError(t, d.Enter("x_0"))
	require.NoError(t, d.Leave("w_2"))
	require.ErrorIs(t, d.Update(), lpdict.ErrDegeneratePivot)

	_, err := d.LeavingCoefficients()
	require.ErrorIs(t, err, lpdict.ErrDegeneratePivot)
}

func TestAddRow(t *testing.T) {
	p, d := newTwoVar(t)

	require.NoError(t, d.AddRow([]float64{1, 1}, 4, "", false))
	require.Equal(t, 3, p.NumRows())
	require.Equal(t, []string{"x_0", "x_1", "w_0", "w_1", "w_2"}, names(d.Variables()))

	// The new slack starts basic and the pre-extension solution is still
	// visible. The cut excludes the old optimum, so its slack is negative.
	require.Equal(t, []string{"x_0", "x_1", "w_2"}, names(d.BasicVariables()))
	require.InDeltaSlice(t, []float64{1.3, 3.3, -0.6}, d.ConstantTerms(), 1e-9)
	require.InDelta(t, 14.08, d.ObjectiveValue(), 1e-9)

	require.NoError(t, p.Solve())
	require.Equal(t, []string{"x_0", "x_1", "w_0"}, names(d.BasicVariables()))
	require.InDelta(t, 13.5, d.ObjectiveValue(), 1e-9)
}

func TestAddRowNamedSlack(t *testing.T) {
	_, d := newTwoVar(t)

	require.NoError(t, d.AddRow([]float64{0, 1}, 3, "cut", true))

	require.NoError(t, d.Leave("cut"))
	leave, ok := d.Leaving()
	require.True(t, ok)
	require.Equal(t, lpdict.Slack, leave.Kind)
	require.True(t, leave.Integer)
	require.Equal(t, 4, leave.Index)
}

func TestAddRowShapeMismatch(t *testing.T) {
	_, d := newTwoVar(t)

	require.ErrorIs(t, d.AddRow([]float64{1}, 4, "", false), lpdict.ErrShapeMismatch)
	require.ErrorIs(t, d.AddRow([]float64{1, 1, 1}, 4, "", false), lpdict.ErrShapeMismatch)
}

func TestSameBackend(t *testing.T) {
	p, d1 := newTwoVar(t)
	_, other := newTwoVar(t)

	d2, err := lpdict.New(p)
	require.NoError(t, err)

	require.True(t, d1.SameBackend(d2))
	require.True(t, d2.SameBackend(d1))
	require.False(t, d1.SameBackend(other))
	require.False(t, d1.SameBackend(nil))
}

func TestTableauSnapshot(t *testing.T) {
	_, d := newTwoVar(t)

	snap, err := d.Tableau()
	require.NoError(t, err)

	require.Equal(t, []string{"x_0", "x_1"}, names(snap.Basic))
	require.Equal(t, []string{"w_0", "w_1"}, names(snap.Nonbasic))
	require.InDeltaSlice(t, []float64{1.3, 3.3}, snap.Constants, 1e-9)
	require.InDeltaSlice(t, []float64{-0.58, -0.76}, snap.ObjectiveRow, 1e-9)
	require.InDelta(t, 14.08, snap.ObjectiveValue, 1e-9)

	r, c := snap.Coefficients.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)
	require.InDelta(t, -0.2, snap.Coefficients.At(0, 0), 1e-9)
	require.InDelta(t, 0.1, snap.Coefficients.At(0, 1), 1e-9)
	require.InDelta(t, 0.8, snap.Coefficients.At(1, 0), 1e-9)
	require.InDelta(t, 0.1, snap.Coefficients.At(1, 1), 1e-9)

	// The snapshot is detached: it keeps the old basis after a pivot.
	require.NoError(t, d.Enter("w_0"))
	require.NoError(t, d.Leave("x_0"))
	require.NoError(t, d.Update())
	require.Equal(t, []string{"x_0", "x_1"}, names(snap.Basic))
	require.InDelta(t, 14.08, snap.ObjectiveValue, 1e-9)
	require.InDelta(t, 17.85, d.ObjectiveValue(), 1e-9)
}
