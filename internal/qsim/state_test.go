package qsim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qswitch/internal/pauli"
)

const eps = 1e-12

func newState(t *testing.T, wires int) *StateVector {
	t.Helper()
	s, err := New(wires)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Run("starts in all zeros", func(t *testing.T) {
		s := newState(t, 3)
		assert.Equal(t, complex128(1), s.Amplitude(0))
		assert.InDelta(t, 1.0, s.Probability(0), eps)
		assert.Equal(t, 3, s.Wires())
	})

	t.Run("rejects bad widths", func(t *testing.T) {
		_, err := New(0)
		assert.Error(t, err)
		_, err = New(MaxWires + 1)
		assert.Error(t, err)
	})
}

func TestPauliGates(t *testing.T) {
	t.Run("X flips a wire", func(t *testing.T) {
		s := newState(t, 2)
		require.NoError(t, s.PauliX(1))
		assert.InDelta(t, 1.0, s.Probability(0b10), eps)
	})

	t.Run("Y flips with phase", func(t *testing.T) {
		s := newState(t, 1)
		require.NoError(t, s.PauliY(0))
		assert.InDelta(t, 0.0, real(s.Amplitude(1)), eps)
		assert.InDelta(t, 1.0, imag(s.Amplitude(1)), eps)
	})

	t.Run("Z phases the one branch only", func(t *testing.T) {
		s := newState(t, 1)
		require.NoError(t, s.Hadamard(0))
		require.NoError(t, s.PauliZ(0))
		require.NoError(t, s.Hadamard(0))
		// HZH = X
		assert.InDelta(t, 1.0, s.Probability(1), eps)
	})

	t.Run("double application is identity", func(t *testing.T) {
		s := newState(t, 2)
		require.NoError(t, s.Hadamard(0))
		require.NoError(t, s.CNOT(0, 1))
		before := s.Clone()
		for _, apply := range []func(int) error{s.PauliX, s.PauliY, s.PauliZ, s.Hadamard} {
			require.NoError(t, apply(1))
			require.NoError(t, apply(1))
		}
		for i := 0; i < 4; i++ {
			assert.InDelta(t, real(before.Amplitude(i)), real(s.Amplitude(i)), eps)
			assert.InDelta(t, imag(before.Amplitude(i)), imag(s.Amplitude(i)), eps)
		}
	})
}

func TestBellState(t *testing.T) {
	s := newState(t, 2)
	require.NoError(t, s.Hadamard(0))
	require.NoError(t, s.CNOT(0, 1))

	for name, c := range map[string]struct {
		obs  pauli.String
		want float64
	}{
		"ZZ": {pauli.NewString(pauli.Z, 0, 1), 1},
		"XX": {pauli.NewString(pauli.X, 0, 1), 1},
		"YY": {pauli.NewString(pauli.Y, 0, 1), -1},
		"Z0": {pauli.NewString(pauli.Z, 0), 0},
		"X1": {pauli.NewString(pauli.X, 1), 0},
	} {
		got, err := s.Expectation(c.obs)
		require.NoError(t, err, name)
		assert.InDelta(t, c.want, got, eps, name)
	}
}

func TestCZ(t *testing.T) {
	s := newState(t, 2)
	require.NoError(t, s.PauliX(0))
	require.NoError(t, s.PauliX(1))
	require.NoError(t, s.CZ(0, 1))
	assert.InDelta(t, -1.0, real(s.Amplitude(0b11)), eps)

	t.Run("symmetric in its wires", func(t *testing.T) {
		a := newState(t, 2)
		require.NoError(t, a.Hadamard(0))
		require.NoError(t, a.Hadamard(1))
		b := a.Clone()
		require.NoError(t, a.CZ(0, 1))
		require.NoError(t, b.CZ(1, 0))
		for i := 0; i < 4; i++ {
			assert.Equal(t, a.Amplitude(i), b.Amplitude(i))
		}
	})
}

func TestRY(t *testing.T) {
	t.Run("pi rotation maps zero to one", func(t *testing.T) {
		s := newState(t, 1)
		require.NoError(t, s.RY(math.Pi, 0))
		assert.InDelta(t, 1.0, s.Probability(1), eps)
	})

	t.Run("opposite half turns cancel", func(t *testing.T) {
		s := newState(t, 1)
		require.NoError(t, s.RY(-math.Pi/2, 0))
		require.NoError(t, s.RY(math.Pi/2, 0))
		assert.InDelta(t, 1.0, s.Probability(0), eps)
	})
}

func TestExpectationPhaseKickback(t *testing.T) {
	// H(anc), CNOT(anc->d), H(anc) reads <X_d> onto <Z_anc>.
	s := newState(t, 2)
	require.NoError(t, s.Hadamard(1)) // data in |+>
	require.NoError(t, s.Hadamard(0))
	require.NoError(t, s.CNOT(0, 1))
	require.NoError(t, s.Hadamard(0))
	got, err := s.Expectation(pauli.NewString(pauli.Z, 0))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, eps)
}

func TestApplyUnitary(t *testing.T) {
	t.Run("matches specialized single-qubit gates", func(t *testing.T) {
		for name, c := range map[string]struct {
			direct func(*StateVector) error
			gate   func(*StateVector) error
		}{
			"H": {func(s *StateVector) error { return s.Hadamard(0) },
				func(s *StateVector) error { return s.ApplyUnitary(HGate, 0) }},
			"X": {func(s *StateVector) error { return s.PauliX(0) },
				func(s *StateVector) error { return s.ApplyUnitary(XGate, 0) }},
			"Y": {func(s *StateVector) error { return s.PauliY(0) },
				func(s *StateVector) error { return s.ApplyUnitary(YGate, 0) }},
			"Z": {func(s *StateVector) error { return s.PauliZ(0) },
				func(s *StateVector) error { return s.ApplyUnitary(ZGate, 0) }},
			"RY": {func(s *StateVector) error { return s.RY(0.7, 0) },
				func(s *StateVector) error { return s.ApplyUnitary(RYGate(0.7), 0) }},
		} {
			a := newState(t, 2)
			require.NoError(t, a.Hadamard(0))
			require.NoError(t, a.CNOT(0, 1))
			b := a.Clone()
			require.NoError(t, c.direct(a), name)
			require.NoError(t, c.gate(b), name)
			for i := 0; i < 4; i++ {
				assert.InDelta(t, real(a.Amplitude(i)), real(b.Amplitude(i)), eps, name)
				assert.InDelta(t, imag(a.Amplitude(i)), imag(b.Amplitude(i)), eps, name)
			}
		}
	})

	t.Run("matches specialized two-qubit gates", func(t *testing.T) {
		a := newState(t, 3)
		require.NoError(t, a.Hadamard(0))
		require.NoError(t, a.Hadamard(2))
		b := a.Clone()
		require.NoError(t, a.CNOT(2, 1))
		require.NoError(t, b.ApplyUnitary(CNOTGate, 2, 1))
		require.NoError(t, a.CZ(0, 2))
		require.NoError(t, b.ApplyUnitary(CZGate, 0, 2))
		for i := 0; i < 8; i++ {
			assert.InDelta(t, real(a.Amplitude(i)), real(b.Amplitude(i)), eps)
			assert.InDelta(t, imag(a.Amplitude(i)), imag(b.Amplitude(i)), eps)
		}
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		s := newState(t, 2)
		assert.Error(t, s.ApplyUnitary(CNOTGate, 0))
		assert.Error(t, s.ApplyUnitary(HGate, 0, 1))
	})
}

func TestWireRangeErrors(t *testing.T) {
	s := newState(t, 2)
	var rangeErr *WireRangeError

	require.ErrorAs(t, s.Hadamard(2), &rangeErr)
	assert.Equal(t, 2, rangeErr.Wire)
	assert.Equal(t, 2, rangeErr.Wires)

	require.ErrorAs(t, s.CNOT(0, -1), &rangeErr)
	_, err := s.Expectation(pauli.NewString(pauli.Z, 5))
	require.ErrorAs(t, err, &rangeErr)

	assert.Error(t, s.CNOT(1, 1))
	assert.Error(t, s.CZ(0, 0))
}
