// Package qsim is the quantum state engine: an exact state-vector simulator
// over complex128 amplitudes. It is the only component that touches raw
// amplitudes. Named gates (Hadamard, Pauli, CNOT, CZ, RY) have specialized
// bitmask implementations; arbitrary one- and two-qubit unitaries go through
// ApplyUnitary with a gonum complex dense matrix.
//
// Measurement follows ideal-simulator semantics: Expectation computes
// <psi|P|psi> for a Pauli-string observable without collapsing the state.
package qsim

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"qswitch/internal/pauli"
)

// MaxWires bounds register width; 2^24 amplitudes is already 256 MiB.
const MaxWires = 24

// WireRangeError reports a gate or observable referencing a wire outside the
// register.
type WireRangeError struct {
	Wire  int
	Wires int
}

func (e *WireRangeError) Error() string {
	return fmt.Sprintf("wire %d out of range for %d-wire register", e.Wire, e.Wires)
}

// StateVector is a normalized pure state over 2^wires basis states. Each
// request owns exactly one StateVector; the engine keeps no shared mutable
// state, so independent requests may run concurrently.
type StateVector struct {
	amps  []complex128
	wires int
}

// New initializes a register of the given width with every wire in |0>.
func New(wires int) (*StateVector, error) {
	if wires <= 0 || wires > MaxWires {
		return nil, fmt.Errorf("register width %d outside [1, %d]", wires, MaxWires)
	}
	amps := make([]complex128, 1<<wires)
	amps[0] = 1
	return &StateVector{amps: amps, wires: wires}, nil
}

// Wires returns the register width.
func (s *StateVector) Wires() int { return s.wires }

// Clone returns an independent copy of the state.
func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.amps))
	copy(amps, s.amps)
	return &StateVector{amps: amps, wires: s.wires}
}

// Amplitude returns the amplitude of a computational basis state, with wire
// k stored in bit k of the index.
func (s *StateVector) Amplitude(basis int) complex128 {
	if basis < 0 || basis >= len(s.amps) {
		return 0
	}
	return s.amps[basis]
}

// Probability returns |amplitude|^2 of a basis state.
func (s *StateVector) Probability(basis int) float64 {
	a := s.Amplitude(basis)
	return real(a * cmplx.Conj(a))
}

func (s *StateVector) check(wires ...int) error {
	for _, w := range wires {
		if w < 0 || w >= s.wires {
			return &WireRangeError{Wire: w, Wires: s.wires}
		}
	}
	return nil
}

// Hadamard applies H to wire q.
func (s *StateVector) Hadamard(q int) error {
	if err := s.check(q); err != nil {
		return err
	}
	h := complex(1/math.Sqrt2, 0)
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := s.amps[i], s.amps[j]
			s.amps[i] = h * (a + b)
			s.amps[j] = h * (a - b)
		}
	}
	return nil
}

// PauliX applies X to wire q.
func (s *StateVector) PauliX(q int) error {
	if err := s.check(q); err != nil {
		return err
	}
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
	return nil
}

// PauliY applies Y to wire q.
func (s *StateVector) PauliY(q int) error {
	if err := s.check(q); err != nil {
		return err
	}
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			// Y|0> = i|1>, Y|1> = -i|0>
			s.amps[i], s.amps[j] = -1i*s.amps[j], 1i*s.amps[i]
		}
	}
	return nil
}

// PauliZ applies Z to wire q.
func (s *StateVector) PauliZ(q int) error {
	if err := s.check(q); err != nil {
		return err
	}
	bit := 1 << q
	for i := range s.amps {
		if i&bit != 0 {
			s.amps[i] = -s.amps[i]
		}
	}
	return nil
}

// RY applies a rotation about the Y axis by theta to wire q.
func (s *StateVector) RY(theta float64, q int) error {
	if err := s.check(q); err != nil {
		return err
	}
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	bit := 1 << q
	for i := range s.amps {
		if i&bit == 0 {
			j := i | bit
			a, b := s.amps[i], s.amps[j]
			s.amps[i] = c*a - sn*b
			s.amps[j] = sn*a + c*b
		}
	}
	return nil
}

// CNOT applies a controlled-X with the given control and target wires.
func (s *StateVector) CNOT(control, target int) error {
	if err := s.check(control, target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("CNOT control and target must differ (wire %d)", control)
	}
	cbit, tbit := 1<<control, 1<<target
	for i := range s.amps {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	}
	return nil
}

// CZ applies a controlled-Z between two wires.
func (s *StateVector) CZ(a, b int) error {
	if err := s.check(a, b); err != nil {
		return err
	}
	if a == b {
		return fmt.Errorf("CZ wires must differ (wire %d)", a)
	}
	abit, bbit := 1<<a, 1<<b
	for i := range s.amps {
		if i&abit != 0 && i&bbit != 0 {
			s.amps[i] = -s.amps[i]
		}
	}
	return nil
}

// ApplyUnitary applies an arbitrary unitary to one or two wires. The matrix
// must be 2x2 for one wire or 4x4 for two; wires[0] indexes the most
// significant bit of the matrix's basis ordering, so the conventional CNOT
// matrix applies with wires (control, target).
func (s *StateVector) ApplyUnitary(u *mat.CDense, wires ...int) error {
	if err := s.check(wires...); err != nil {
		return err
	}
	r, c := u.Dims()
	dim := 1 << len(wires)
	if len(wires) < 1 || len(wires) > 2 || r != dim || c != dim {
		return fmt.Errorf("unitary is %dx%d, want %dx%d for %d wire(s)", r, c, dim, dim, len(wires))
	}
	for i := 1; i < len(wires); i++ {
		if wires[i] == wires[0] {
			return fmt.Errorf("unitary wires must be distinct")
		}
	}

	// Gather bit positions, wires[0] most significant.
	bits := make([]int, len(wires))
	for k, w := range wires {
		bits[k] = 1 << w
	}
	mask := 0
	for _, b := range bits {
		mask |= b
	}

	scratch := make([]complex128, dim)
	for base := range s.amps {
		if base&mask != 0 {
			continue
		}
		// Local basis index to global amplitude index.
		for li := 0; li < dim; li++ {
			idx := base
			for k := range bits {
				if li&(1<<(len(bits)-1-k)) != 0 {
					idx |= bits[k]
				}
			}
			scratch[li] = s.amps[idx]
		}
		for li := 0; li < dim; li++ {
			var acc complex128
			for lj := 0; lj < dim; lj++ {
				acc += u.At(li, lj) * scratch[lj]
			}
			idx := base
			for k := range bits {
				if li&(1<<(len(bits)-1-k)) != 0 {
					idx |= bits[k]
				}
			}
			s.amps[idx] = acc
		}
	}
	return nil
}

// Expectation computes <psi|P|psi> for a Pauli-string observable without
// collapsing the state. The result is real for any Hermitian Pauli string;
// stabilizer eigenstates yield exact +1/-1 up to float arithmetic (callers
// that need the exact contract snap via the reporter).
func (s *StateVector) Expectation(obs pauli.String) (float64, error) {
	xmask := 0
	zymask := 0
	ycount := 0
	for _, t := range obs {
		if t.Op == pauli.I {
			continue
		}
		if err := s.check(t.Qubit); err != nil {
			return 0, err
		}
		bit := 1 << t.Qubit
		switch t.Op {
		case pauli.X:
			xmask |= bit
		case pauli.Y:
			xmask |= bit
			zymask |= bit
			ycount++
		case pauli.Z:
			zymask |= bit
		}
	}

	// P|i> = c(i) |i ^ xmask> with c(i) = i^ycount * (-1)^popcount(i & zymask).
	yphase := pauli.Phase(ycount % 4).Complex()
	var acc complex128
	for i, a := range s.amps {
		if a == 0 {
			continue
		}
		c := yphase
		if popcount(i&zymask)%2 == 1 {
			c = -c
		}
		acc += cmplx.Conj(s.amps[i^xmask]) * c * a
	}
	return real(acc), nil
}

func popcount(x int) int {
	n := 0
	for x > 0 {
		n += x & 1
		x >>= 1
	}
	return n
}
