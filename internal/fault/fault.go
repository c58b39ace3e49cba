// Package fault injects single-qubit Pauli errors into a prepared register.
package fault

import (
	"fmt"

	"qswitch/internal/pauli"
	"qswitch/internal/qsim"
)

// QubitRangeError reports a fault aimed outside the data register.
type QubitRangeError struct {
	Qubit      int
	DataQubits int
}

func (e *QubitRangeError) Error() string {
	return fmt.Sprintf("error qubit %d out of range [0, %d)", e.Qubit, e.DataQubits)
}

// Inject applies op to the given data qubit. The identity is a no-op and
// skips the range check only for negative sentinels used by "no error"
// requests; a concrete Pauli on an out-of-range qubit fails.
func Inject(s *qsim.StateVector, op pauli.Operator, qubit, dataQubits int) error {
	if op == pauli.I {
		return nil
	}
	if qubit < 0 || qubit >= dataQubits {
		return &QubitRangeError{Qubit: qubit, DataQubits: dataQubits}
	}
	switch op {
	case pauli.X:
		return s.PauliX(qubit)
	case pauli.Y:
		return s.PauliY(qubit)
	case pauli.Z:
		return s.PauliZ(qubit)
	}
	return &pauli.InvalidOperatorError{Symbol: op.String()}
}
