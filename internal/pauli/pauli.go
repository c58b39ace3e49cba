// Package pauli implements the single-qubit Pauli group and products of
// Pauli terms over a qubit register. It is the shared algebra layer for code
// definitions, observables, and fault injection: composition with phase
// tracking, commutation checks, and multi-qubit Pauli strings.
package pauli

import (
	"fmt"
	"sort"
	"strings"
)

// Operator is a single-qubit Pauli operator.
type Operator byte

const (
	I Operator = iota
	X
	Y
	Z
)

var opNames = [4]string{"I", "X", "Y", "Z"}

func (op Operator) String() string {
	if op > Z {
		return fmt.Sprintf("Operator(%d)", byte(op))
	}
	return opNames[op]
}

// Valid reports whether op is one of I, X, Y, Z.
func (op Operator) Valid() bool { return op <= Z }

// InvalidOperatorError reports a symbol that names no Pauli operator.
type InvalidOperatorError struct {
	Symbol string
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("invalid Pauli operator %q (want I, X, Y, or Z)", e.Symbol)
}

// Parse maps a symbol to an Operator. The empty string and "None" parse as
// the identity, matching the boundary convention for "no error".
func Parse(symbol string) (Operator, error) {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "", "NONE", "I":
		return I, nil
	case "X":
		return X, nil
	case "Y":
		return Y, nil
	case "Z":
		return Z, nil
	}
	return I, &InvalidOperatorError{Symbol: symbol}
}

// Phase is a power of the imaginary unit: Phase(k) represents i^k.
type Phase int

const (
	PhasePlusOne  Phase = 0
	PhasePlusI    Phase = 1
	PhaseMinusOne Phase = 2
	PhaseMinusI   Phase = 3
)

// Mul combines two phases.
func (p Phase) Mul(q Phase) Phase { return (p + q) % 4 }

func (p Phase) String() string {
	switch p % 4 {
	case PhasePlusI:
		return "+i"
	case PhaseMinusOne:
		return "-1"
	case PhaseMinusI:
		return "-i"
	default:
		return "+1"
	}
}

// Complex returns the phase as a complex number.
func (p Phase) Complex() complex128 {
	switch p % 4 {
	case PhasePlusI:
		return 1i
	case PhaseMinusOne:
		return -1
	case PhaseMinusI:
		return -1i
	default:
		return 1
	}
}

// composeTable[a][b] holds a·b for non-identity a, b as (result, phase).
// Rows/columns are indexed X=1, Y=2, Z=3.
var composeTable = [4][4]struct {
	op    Operator
	phase Phase
}{
	X: {X: {I, PhasePlusOne}, Y: {Z, PhasePlusI}, Z: {Y, PhaseMinusI}},
	Y: {X: {Z, PhaseMinusI}, Y: {I, PhasePlusOne}, Z: {X, PhasePlusI}},
	Z: {X: {Y, PhasePlusI}, Y: {X, PhaseMinusI}, Z: {I, PhasePlusOne}},
}

// Compose multiplies two single-qubit Pauli operators acting on the same
// qubit, returning the resulting operator and the accumulated phase, per the
// standard multiplication table (XY = iZ, YX = -iZ, ...).
func Compose(a, b Operator) (Operator, Phase, error) {
	if !a.Valid() {
		return I, PhasePlusOne, &InvalidOperatorError{Symbol: fmt.Sprintf("%d", byte(a))}
	}
	if !b.Valid() {
		return I, PhasePlusOne, &InvalidOperatorError{Symbol: fmt.Sprintf("%d", byte(b))}
	}
	if a == I {
		return b, PhasePlusOne, nil
	}
	if b == I {
		return a, PhasePlusOne, nil
	}
	e := composeTable[a][b]
	return e.op, e.phase, nil
}

// Commutes reports whether two single-qubit operators commute: true when
// either is the identity or both are the same operator, false for distinct
// non-identity operators.
func Commutes(a, b Operator) bool {
	return a == I || b == I || a == b
}

// Term is a single-qubit Pauli operator bound to a qubit index.
type Term struct {
	Op    Operator
	Qubit int
}

func (t Term) String() string { return fmt.Sprintf("%s%d", t.Op, t.Qubit) }

// String is a product of Pauli terms over distinct qubits (a Pauli string).
// Qubits not mentioned carry the identity. The zero value is the identity
// operator on every qubit.
type String []Term

// NewString builds a Pauli string applying op to each of the given qubits.
func NewString(op Operator, qubits ...int) String {
	s := make(String, 0, len(qubits))
	for _, q := range qubits {
		s = append(s, Term{Op: op, Qubit: q})
	}
	return s
}

// OperatorAt returns the operator acting on qubit q (identity if absent).
func (s String) OperatorAt(q int) Operator {
	for _, t := range s {
		if t.Qubit == q {
			return t.Op
		}
	}
	return I
}

// Support returns the sorted qubit indices carrying a non-identity operator.
func (s String) Support() []int {
	qs := make([]int, 0, len(s))
	for _, t := range s {
		if t.Op != I {
			qs = append(qs, t.Qubit)
		}
	}
	sort.Ints(qs)
	return qs
}

// Weight is the number of qubits with a non-identity operator.
func (s String) Weight() int { return len(s.Support()) }

// CommutesWith reports whether two Pauli strings commute: they do iff the
// number of qubits where both act with distinct non-identity operators is
// even.
func (s String) CommutesWith(t String) bool {
	anti := 0
	for _, a := range s {
		if a.Op == I {
			continue
		}
		b := t.OperatorAt(a.Qubit)
		if b != I && b != a.Op {
			anti++
		}
	}
	return anti%2 == 0
}

// Mul multiplies two Pauli strings term-by-term, returning the product and
// its overall phase.
func Mul(a, b String) (String, Phase, error) {
	phase := PhasePlusOne
	qubits := map[int]Operator{}
	order := []int{}
	for _, t := range a {
		if _, seen := qubits[t.Qubit]; !seen {
			order = append(order, t.Qubit)
		}
		op, ph, err := Compose(qubits[t.Qubit], t.Op)
		if err != nil {
			return nil, PhasePlusOne, err
		}
		qubits[t.Qubit] = op
		phase = phase.Mul(ph)
	}
	for _, t := range b {
		if _, seen := qubits[t.Qubit]; !seen {
			order = append(order, t.Qubit)
		}
		op, ph, err := Compose(qubits[t.Qubit], t.Op)
		if err != nil {
			return nil, PhasePlusOne, err
		}
		qubits[t.Qubit] = op
		phase = phase.Mul(ph)
	}
	sort.Ints(order)
	out := make(String, 0, len(order))
	for _, q := range order {
		if qubits[q] != I {
			out = append(out, Term{Op: qubits[q], Qubit: q})
		}
	}
	return out, phase, nil
}

func (s String) String() string {
	if len(s) == 0 {
		return "I"
	}
	parts := make([]string, 0, len(s))
	for _, t := range s {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " ")
}
