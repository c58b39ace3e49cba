package qsim

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Named gate unitaries for the generic ApplyUnitary path. The specialized
// StateVector methods are preferred in hot loops; these matrices exist so
// callers can express any one- or two-qubit unitary uniformly.
var (
	HGate = mat.NewCDense(2, 2, []complex128{
		complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0),
		complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0),
	})
	XGate = mat.NewCDense(2, 2, []complex128{
		0, 1,
		1, 0,
	})
	YGate = mat.NewCDense(2, 2, []complex128{
		0, -1i,
		1i, 0,
	})
	ZGate = mat.NewCDense(2, 2, []complex128{
		1, 0,
		0, -1,
	})
	// CNOTGate applies with wires (control, target).
	CNOTGate = mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
		0, 0, 1, 0,
	})
	CZGate = mat.NewCDense(4, 4, []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1,
	})
)

// RYGate builds the Y-axis rotation unitary for angle theta.
func RYGate(theta float64) *mat.CDense {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return mat.NewCDense(2, 2, []complex128{
		c, -s,
		s, c,
	})
}
