// Package code holds the immutable stabilizer-code definitions the switcher
// operates on: qubit counts and roles, stabilizer generators with their
// readout ancillas, and the logical operator pair. The two built-in codes
// (Surface-13 and Surface-17) are constructed once at process start and are
// read-only for the process lifetime.
package code

import (
	"errors"
	"fmt"

	"qswitch/internal/pauli"
)

// Basis tags a stabilizer generator as X-type or Z-type.
type Basis byte

const (
	BasisX Basis = iota
	BasisZ
)

func (b Basis) String() string {
	if b == BasisX {
		return "X"
	}
	return "Z"
}

// Operator returns the Pauli operator for the basis.
func (b Basis) Operator() pauli.Operator {
	if b == BasisX {
		return pauli.X
	}
	return pauli.Z
}

// Stabilizer is one generator of a code's stabilizer group together with the
// ancilla wire used to read it out.
type Stabilizer struct {
	Name    string
	Basis   Basis
	Data    []int // data-qubit support, in circuit order
	Ancilla int   // readout wire
}

// Observable is the generator as a Pauli string in its native basis.
func (s Stabilizer) Observable() pauli.String {
	return pauli.NewString(s.Basis.Operator(), s.Data...)
}

// Role classifies a physical wire within a code's register.
type Role byte

const (
	RoleData Role = iota
	RoleAncilla
	RoleUnused
)

func (r Role) String() string {
	switch r {
	case RoleData:
		return "data"
	case RoleAncilla:
		return "ancilla"
	default:
		return "unused"
	}
}

// Definition describes one stabilizer code. Instances are immutable after
// construction; all components receive them explicitly rather than through
// package-level mutable state.
type Definition struct {
	// Name is the boundary identifier ("surface13"), Label the display
	// form ("Surface-13").
	Name  string
	Label string

	DataQubits    int
	AncillaQubits int

	Stabilizers []Stabilizer
	LogicalX    []int
	LogicalZ    []int

	// ConjugateReadout marks a code whose checks are read in the
	// conjugate Pauli basis when measured directly on data qubits after a
	// conversion (the compact code's transfer-readout convention).
	ConjugateReadout bool

	// AncillaPrep marks a code whose logical-zero preparation projects
	// the X checks through their ancillas (with a reset) before use. The
	// compact code prepares logical zero as the bare all-zeros register.
	AncillaPrep bool
}

// TotalQubits is the full register width: data plus ancilla wires.
func (d *Definition) TotalQubits() int { return d.DataQubits + d.AncillaQubits }

// RoleOf reports the role of a physical wire in this code's register.
func (d *Definition) RoleOf(wire int) Role {
	switch {
	case wire >= 0 && wire < d.DataQubits:
		return RoleData
	case wire >= d.DataQubits && wire < d.TotalQubits():
		return RoleAncilla
	default:
		return RoleUnused
	}
}

// DataWires returns the data-qubit indices.
func (d *Definition) DataWires() []int {
	ws := make([]int, d.DataQubits)
	for i := range ws {
		ws[i] = i
	}
	return ws
}

// LogicalXString is the logical-X operator as a Pauli string.
func (d *Definition) LogicalXString() pauli.String {
	return pauli.NewString(pauli.X, d.LogicalX...)
}

// LogicalZString is the logical-Z operator as a Pauli string.
func (d *Definition) LogicalZString() pauli.String {
	return pauli.NewString(pauli.Z, d.LogicalZ...)
}

// TransferObservable is the Pauli string used to read generator s directly
// on the data qubits after a conversion. Codes with ConjugateReadout swap
// the basis (X checks read as Z strings and vice versa).
func (d *Definition) TransferObservable(s Stabilizer) pauli.String {
	basis := s.Basis.Operator()
	if d.ConjugateReadout {
		if s.Basis == BasisX {
			basis = pauli.Z
		} else {
			basis = pauli.X
		}
	}
	return pauli.NewString(basis, s.Data...)
}

// XStabilizers returns the X-type generators in declaration order.
func (d *Definition) XStabilizers() []Stabilizer {
	out := []Stabilizer{}
	for _, s := range d.Stabilizers {
		if s.Basis == BasisX {
			out = append(out, s)
		}
	}
	return out
}

// ZStabilizers returns the Z-type generators in declaration order.
func (d *Definition) ZStabilizers() []Stabilizer {
	out := []Stabilizer{}
	for _, s := range d.Stabilizers {
		if s.Basis == BasisZ {
			out = append(out, s)
		}
	}
	return out
}

// InvalidCodeDefinitionError reports a structurally broken code definition.
// It is a construction-time failure: hitting one at runtime with a built-in
// code indicates a programming defect.
type InvalidCodeDefinitionError struct {
	Code   string
	Reason string
}

func (e *InvalidCodeDefinitionError) Error() string {
	return fmt.Sprintf("invalid code definition %q: %s", e.Code, e.Reason)
}

// ErrUnknownCode is returned by ByName for unrecognized code names.
var ErrUnknownCode = errors.New("unknown code")

func (d *Definition) fail(format string, args ...interface{}) error {
	return &InvalidCodeDefinitionError{Code: d.Name, Reason: fmt.Sprintf(format, args...)}
}

// validateStructure checks the invariants every definition must satisfy:
// index ranges, non-identity generators, per-basis commutation, and the
// logical X/Z pair anticommuting.
func (d *Definition) validateStructure() error {
	if d.DataQubits <= 0 || d.AncillaQubits < 0 {
		return d.fail("qubit counts must be positive (%d data, %d ancilla)", d.DataQubits, d.AncillaQubits)
	}
	if len(d.Stabilizers) != d.AncillaQubits {
		return d.fail("%d generators need %d readout ancillas, have %d", len(d.Stabilizers), len(d.Stabilizers), d.AncillaQubits)
	}
	for _, s := range d.Stabilizers {
		if len(s.Data) == 0 {
			return d.fail("generator %s is the identity", s.Name)
		}
		for _, q := range s.Data {
			if d.RoleOf(q) != RoleData {
				return d.fail("generator %s references wire %d outside the data register", s.Name, q)
			}
		}
		if d.RoleOf(s.Ancilla) != RoleAncilla {
			return d.fail("generator %s readout wire %d is not an ancilla", s.Name, s.Ancilla)
		}
	}
	for i, a := range d.Stabilizers {
		for _, b := range d.Stabilizers[i+1:] {
			if a.Basis == b.Basis && !a.Observable().CommutesWith(b.Observable()) {
				return d.fail("same-basis generators %s and %s anticommute", a.Name, b.Name)
			}
		}
	}
	lx, lz := d.LogicalXString(), d.LogicalZString()
	if lx.CommutesWith(lz) {
		return d.fail("logical X and logical Z must anticommute")
	}
	for _, q := range append(append([]int{}, d.LogicalX...), d.LogicalZ...) {
		if d.RoleOf(q) != RoleData {
			return d.fail("logical operator references wire %d outside the data register", q)
		}
	}
	return nil
}

// Validate runs the full stabilizer-code validity check: everything in
// validateStructure plus pairwise commutation across bases and commutation of
// every generator with both logical operators. Surface-17 passes; the
// compact Surface-13 layout does not, because its X and Z checks overlap on
// single corner qubits (see that code's definition for the consequences).
func (d *Definition) Validate() error {
	if err := d.validateStructure(); err != nil {
		return err
	}
	for i, a := range d.Stabilizers {
		for _, b := range d.Stabilizers[i+1:] {
			if !a.Observable().CommutesWith(b.Observable()) {
				return d.fail("generators %s and %s anticommute", a.Name, b.Name)
			}
		}
	}
	lx, lz := d.LogicalXString(), d.LogicalZString()
	for _, s := range d.Stabilizers {
		obs := s.Observable()
		if !obs.CommutesWith(lx) {
			return d.fail("generator %s anticommutes with logical X", s.Name)
		}
		if !obs.CommutesWith(lz) {
			return d.fail("generator %s anticommutes with logical Z", s.Name)
		}
	}
	return nil
}
