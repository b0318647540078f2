package lpdict

import "fmt"

// VarKind distinguishes structural problem variables from row slacks.
type VarKind int

const (
	// Structural is a problem (column) variable.
	Structural VarKind = iota
	// Slack is the auxiliary variable of a constraint row.
	Slack
)

// String returns a human-readable representation of the variable kind.
func (k VarKind) String() string {
	switch k {
	case Structural:
		return "Structural"
	case Slack:
		return "Slack"
	default:
		return "Unknown"
	}
}

// Variable is a symbol in the dictionary. Index is the dense variable
// index: structural columns first, then one slack per row.
type Variable struct {
	Name    string
	Kind    VarKind
	Index   int
	Integer bool
}

// String returns the variable's symbolic name.
func (v Variable) String() string { return v.Name }

// symbols is the dictionary's naming layer: a bijection between dense
// variable indices and unique symbolic names. Names are only ever
// appended, never renumbered.
type symbols struct {
	vars   []Variable
	byName map[string]int
}

// canonicalName derives the symbol for a variable: the engine's name when
// present, else prefix_i ("x_i" for columns, "w_i" for rows).
func canonicalName(name, prefix string, i int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s_%d", prefix, i)
}

// newSymbols builds the symbol table from the backend's current shape,
// structural columns first, row slacks second. A name collision (between
// engine names, or an engine name and a synthesized one) is an error.
func newSymbols(b Backend) (*symbols, error) {
	ncols, nrows := b.NumCols(), b.NumRows()
	s := &symbols{
		vars:   make([]Variable, 0, ncols+nrows),
		byName: make(map[string]int, ncols+nrows),
	}
	for i := 0; i < ncols; i++ {
		err := s.append(Variable{
			Name:  canonicalName(b.ColName(i), "x", i),
			Kind:  Structural,
			Index: i,
		})
		if err != nil {
			return nil, err
		}
	}
	for i := 0; i < nrows; i++ {
		err := s.append(Variable{
			Name:  canonicalName(b.RowName(i), "w", i),
			Kind:  Slack,
			Index: ncols + i,
		})
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *symbols) append(v Variable) error {
	if _, ok := s.byName[v.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, v.Name)
	}
	s.byName[v.Name] = len(s.vars)
	s.vars = append(s.vars, v)
	return nil
}

// lookup resolves a symbolic name to its variable.
func (s *symbols) lookup(name string) (Variable, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Variable{}, false
	}
	return s.vars[i], true
}

// at returns the variable with dense index i. The symbol table is built in
// index order, so positions and indices coincide.
func (s *symbols) at(i int) Variable { return s.vars[i] }

func (s *symbols) len() int { return len(s.vars) }
