package lpdict

import "errors"

// Sentinel errors returned by the dictionary. All are matched with
// errors.Is; context is added by wrapping with fmt.Errorf("...: %w", err).
var (
	// ErrStandardForm is returned by New when the problem is not in
	// canonical standard form: every row a pure ≤-constraint and every
	// structural variable bounded below.
	ErrStandardForm = errors.New("lpdict: problem not in standard form")

	// ErrNoEntering is returned when a query needs an entering variable
	// and none has been selected.
	ErrNoEntering = errors.New("lpdict: entering variable not chosen")

	// ErrNoLeaving is returned when a query needs a leaving variable and
	// none has been selected.
	ErrNoLeaving = errors.New("lpdict: leaving variable not chosen")

	// ErrDegeneratePivot is returned by Update when the selected entering
	// and leaving variables are incompatible: the pivot coefficient is
	// zero, the entering variable is already basic, or the leaving
	// variable is not basic.
	ErrDegeneratePivot = errors.New("lpdict: incompatible choice of entering and leaving variables")

	// ErrShapeMismatch is returned by AddRow when the coefficient vector
	// does not cover every structural column exactly once.
	ErrShapeMismatch = errors.New("lpdict: coefficient length does not match column count")

	// ErrUnknownVariable is returned by Enter and Leave for a symbol that
	// is not in the dictionary.
	ErrUnknownVariable = errors.New("lpdict: unknown variable")

	// ErrDuplicateName is returned by New and AddRow when a variable name
	// collides with one already in the dictionary. Names form a bijection
	// with variable indices, so a repeat is rejected rather than shadowed.
	ErrDuplicateName = errors.New("lpdict: duplicate variable name")
)
