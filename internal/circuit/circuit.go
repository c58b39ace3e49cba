// Package circuit provides a declarative gate-sequence representation.
// Encoders emit circuits rather than mutating state directly, so the exact
// gate layout of a protocol step can be inspected and tested before it is
// run against a state vector.
package circuit

import (
	"fmt"
	"strings"

	"qswitch/internal/qsim"
)

// Kind names a gate type.
type Kind byte

const (
	KindH Kind = iota
	KindX
	KindY
	KindZ
	KindRY
	KindCNOT
	KindCZ
)

var kindNames = [...]string{"H", "X", "Y", "Z", "RY", "CNOT", "CZ"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Gate is one gate application: a kind, its wires (one, or two for
// CNOT/CZ), and a rotation angle for RY.
type Gate struct {
	Kind  Kind
	Wires []int
	Theta float64
}

func (g Gate) String() string {
	ws := make([]string, len(g.Wires))
	for i, w := range g.Wires {
		ws[i] = fmt.Sprintf("%d", w)
	}
	if g.Kind == KindRY {
		return fmt.Sprintf("RY(%g)[%s]", g.Theta, strings.Join(ws, ","))
	}
	return fmt.Sprintf("%s[%s]", g.Kind, strings.Join(ws, ","))
}

// Circuit is an ordered gate sequence. The zero value is empty and usable.
type Circuit struct {
	gates []Gate
}

// New returns an empty circuit.
func New() *Circuit { return &Circuit{} }

// H appends a Hadamard on wire q.
func (c *Circuit) H(q int) *Circuit { return c.add(Gate{Kind: KindH, Wires: []int{q}}) }

// X appends a Pauli-X on wire q.
func (c *Circuit) X(q int) *Circuit { return c.add(Gate{Kind: KindX, Wires: []int{q}}) }

// Y appends a Pauli-Y on wire q.
func (c *Circuit) Y(q int) *Circuit { return c.add(Gate{Kind: KindY, Wires: []int{q}}) }

// Z appends a Pauli-Z on wire q.
func (c *Circuit) Z(q int) *Circuit { return c.add(Gate{Kind: KindZ, Wires: []int{q}}) }

// RY appends a Y-axis rotation by theta on wire q.
func (c *Circuit) RY(theta float64, q int) *Circuit {
	return c.add(Gate{Kind: KindRY, Wires: []int{q}, Theta: theta})
}

// CNOT appends a controlled-X from control to target.
func (c *Circuit) CNOT(control, target int) *Circuit {
	return c.add(Gate{Kind: KindCNOT, Wires: []int{control, target}})
}

// CZ appends a controlled-Z between two wires.
func (c *Circuit) CZ(a, b int) *Circuit { return c.add(Gate{Kind: KindCZ, Wires: []int{a, b}}) }

func (c *Circuit) add(g Gate) *Circuit {
	c.gates = append(c.gates, g)
	return c
}

// Append concatenates another circuit's gates onto this one.
func (c *Circuit) Append(other *Circuit) *Circuit {
	if other != nil {
		c.gates = append(c.gates, other.gates...)
	}
	return c
}

// Gates returns the gate sequence. Callers must not mutate it.
func (c *Circuit) Gates() []Gate { return c.gates }

// Len is the number of gates.
func (c *Circuit) Len() int { return len(c.gates) }

// Run applies the circuit to a state vector in order. The state is mutated
// gate by gate; a wire-range failure aborts the run with the engine's error.
func (c *Circuit) Run(s *qsim.StateVector) error {
	for _, g := range c.gates {
		var err error
		switch g.Kind {
		case KindH:
			err = s.Hadamard(g.Wires[0])
		case KindX:
			err = s.PauliX(g.Wires[0])
		case KindY:
			err = s.PauliY(g.Wires[0])
		case KindZ:
			err = s.PauliZ(g.Wires[0])
		case KindRY:
			err = s.RY(g.Theta, g.Wires[0])
		case KindCNOT:
			err = s.CNOT(g.Wires[0], g.Wires[1])
		case KindCZ:
			err = s.CZ(g.Wires[0], g.Wires[1])
		default:
			err = fmt.Errorf("unknown gate kind %v", g.Kind)
		}
		if err != nil {
			return fmt.Errorf("gate %s: %w", g, err)
		}
	}
	return nil
}
