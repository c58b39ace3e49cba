package convert

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qswitch/internal/code"
	"qswitch/internal/encode"
	"qswitch/internal/pauli"
)

func TestRequestValidate(t *testing.T) {
	s13, s17 := code.Surface13(), code.Surface17()

	for name, c := range map[string]struct {
		req Request
		ok  bool
	}{
		"clean run":             {Request{Source: s13, ErrorQubit: NoErrorQubit}, true},
		"fault run":             {Request{Source: s17, Error: pauli.X, ErrorQubit: 4}, true},
		"conversion":            {Request{Source: s13, Target: s17, ErrorQubit: NoErrorQubit}, true},
		"missing source":        {Request{ErrorQubit: NoErrorQubit}, false},
		"bad initial":           {Request{Source: s13, Initial: 2, ErrorQubit: NoErrorQubit}, false},
		"type without qubit":    {Request{Source: s13, Error: pauli.Z, ErrorQubit: NoErrorQubit}, false},
		"qubit without type":    {Request{Source: s13, ErrorQubit: 3}, false},
		"projected plain":       {Request{Source: s17, ErrorQubit: NoErrorQubit, Projected: true}, true},
		"projected conversion":  {Request{Source: s13, Target: s17, ErrorQubit: NoErrorQubit, Projected: true}, false},
		"same-code target runs": {Request{Source: s13, Target: s13, ErrorQubit: NoErrorQubit, Projected: true}, true},
	} {
		t.Run(name, func(t *testing.T) {
			err := c.req.Validate()
			if c.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	t.Run("same-code target is not a conversion", func(t *testing.T) {
		req := Request{Source: s13, Target: s13, ErrorQubit: NoErrorQubit}
		assert.False(t, req.Converted())
		req.Target = s17
		assert.True(t, req.Converted())
	})
}

func TestSnap(t *testing.T) {
	assert.Equal(t, 1.0, Snap(1.0000000000002))
	assert.Equal(t, -1.0, Snap(-0.9999999999998))
	assert.Equal(t, 0.0, Snap(-1e-12))
	assert.False(t, math.Signbit(Snap(-1e-12)))
	assert.Equal(t, 0.7, Snap(0.7))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1.0", formatValue(1))
	assert.Equal(t, "-1.0", formatValue(-1))
	assert.Equal(t, "0.0", formatValue(0))
	assert.Equal(t, "0.5", formatValue(0.5))
}

func TestRender(t *testing.T) {
	t.Run("plain run", func(t *testing.T) {
		r := &Result{
			Code:     code.Surface13(),
			Source:   "surface13",
			Syndrome: []float64{0, 0, 0, 0},
		}
		assert.Equal(t, []string{
			"Surface-13 results:",
			"Syndrome (S1,S2,S3,S4): [0.0, 0.0, 0.0, 0.0]",
			"Logical Z expectation: 0.0",
		}, r.Render())
	})

	t.Run("conversion", func(t *testing.T) {
		r := &Result{
			Code:      code.Surface17(),
			Source:    "surface13",
			Target:    "surface17",
			Converted: true,
			Syndrome:  []float64{0, 0, 0, 0, 0, 0, 0, 1},
			LogicalZ:  0,
		}
		assert.Equal(t, []string{
			"Converted from surface13 to surface17:",
			"Syndrome (S1..S8): [0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1.0]",
			"Logical Z expectation: 0.0",
		}, r.Render())
	})
}

// The compact code's checks pairwise anticommute through the shared corner
// qubits, so on the bare register every ancilla readout is exactly
// undetermined. No single-qubit Pauli and no logical flip changes that.
func TestRunSurface13Grid(t *testing.T) {
	p := NewPipeline(nil)
	def := code.Surface13()

	cases := []Request{{Source: def, ErrorQubit: NoErrorQubit}}
	for _, op := range []pauli.Operator{pauli.X, pauli.Y, pauli.Z} {
		for q := 0; q < def.DataQubits; q++ {
			cases = append(cases, Request{Source: def, Error: op, ErrorQubit: q})
		}
	}

	for _, base := range cases {
		for _, initial := range []int{0, 1} {
			req := base
			req.Initial = initial
			name := fmt.Sprintf("init%d_%s@%d", initial, req.Error, req.ErrorQubit)
			t.Run(name, func(t *testing.T) {
				res, err := p.Run(req)
				require.NoError(t, err)
				assert.Equal(t, []float64{0, 0, 0, 0}, res.Syndrome)
				assert.Equal(t, 0.0, res.LogicalZ)
				assert.Equal(t, 0, res.Decision.Bit)
				assert.Equal(t, StateMeasured, res.Final)
				assert.False(t, res.Converted)
				assert.Equal(t, "surface13", res.Source)
				assert.Empty(t, res.Target)
			})
		}
	}
}

// The standard code's ancilla-projected preparation pins every X-check
// readout at -1 and every Z-check readout at +1. A fault flips exactly the
// checks it anticommutes with, and the logical sign tracks the X component
// on the logical Z support.
func TestRunSurface17Grid(t *testing.T) {
	p := NewPipeline(nil)
	def := code.Surface17()

	hasX := func(op pauli.Operator) bool { return op == pauli.X || op == pauli.Y }
	hasZ := func(op pauli.Operator) bool { return op == pauli.Z || op == pauli.Y }
	onSupport := func(data []int, q int) bool {
		for _, d := range data {
			if d == q {
				return true
			}
		}
		return false
	}

	expected := func(initial int, op pauli.Operator, q int) ([]float64, float64) {
		syn := make([]float64, 0, len(def.Stabilizers))
		for _, st := range def.Stabilizers {
			v := 1.0
			if st.Basis == code.BasisX {
				v = -1.0
				if hasZ(op) && onSupport(st.Data, q) {
					v = 1.0
				}
			} else if hasX(op) && onSupport(st.Data, q) {
				v = -1.0
			}
			syn = append(syn, v)
		}
		lz := float64(1 - 2*initial)
		if hasX(op) && onSupport(def.LogicalZ, q) {
			lz = -lz
		}
		return syn, lz
	}

	ops := []pauli.Operator{pauli.I, pauli.X, pauli.Y, pauli.Z}
	for _, op := range ops {
		qubits := []int{NoErrorQubit}
		if op != pauli.I {
			qubits = make([]int, def.DataQubits)
			for q := range qubits {
				qubits[q] = q
			}
		}
		for _, q := range qubits {
			for _, initial := range []int{0, 1} {
				req := Request{Source: def, Initial: initial, Error: op, ErrorQubit: q}
				name := fmt.Sprintf("init%d_%s@%d", initial, op, q)
				t.Run(name, func(t *testing.T) {
					res, err := p.Run(req)
					require.NoError(t, err)
					wantSyn, wantLZ := expected(initial, op, q)
					assert.Equal(t, wantSyn, res.Syndrome)
					assert.Equal(t, wantLZ, res.LogicalZ)
					wantBit := 0
					if wantLZ < 0 {
						wantBit = 1
					}
					assert.Equal(t, wantBit, res.Decision.Bit)
				})
			}
		}
	}
}

func TestRunProjected(t *testing.T) {
	p := NewPipeline(nil)
	def := code.Surface17()

	t.Run("clean codeword reads all plus one", func(t *testing.T) {
		res, err := p.Run(Request{Source: def, ErrorQubit: NoErrorQubit, Projected: true})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 1, 1, 1, 1, 1, 1, 1}, res.Syndrome)
		assert.Equal(t, 1.0, res.LogicalZ)
		assert.Equal(t, 0, res.Decision.Bit)
	})

	t.Run("assisted decode undoes a logical-support X", func(t *testing.T) {
		res, err := p.Run(Request{
			Source:     def,
			Error:      pauli.X,
			ErrorQubit: 4,
			Projected:  true,
			DecodeMode: encode.DecodeSyndromeAssisted,
		})
		require.NoError(t, err)
		assert.Equal(t, -1.0, res.LogicalZ)
		assert.Equal(t, 0, res.Decision.Bit)
		require.NotNil(t, res.Decision.Correction)
		assert.Equal(t, pauli.Term{Op: pauli.X, Qubit: 4}, *res.Decision.Correction)
	})

	t.Run("compact code rejects projected preparation", func(t *testing.T) {
		_, err := p.Run(Request{Source: code.Surface13(), ErrorQubit: NoErrorQubit, Projected: true})
		assert.Error(t, err)
	})
}

func TestRunConversion(t *testing.T) {
	p := NewPipeline(nil)
	s13, s17 := code.Surface13(), code.Surface17()

	t.Run("clean compact to standard", func(t *testing.T) {
		res, err := p.Run(Request{Source: s13, Target: s17, ErrorQubit: NoErrorQubit})
		require.NoError(t, err)
		assert.True(t, res.Converted)
		assert.Equal(t, "surface13", res.Source)
		assert.Equal(t, "surface17", res.Target)
		assert.Equal(t, s17, res.Code)
		assert.Equal(t, StateMeasured, res.Final)
		assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 1}, res.Syndrome)
		assert.Equal(t, 0.0, res.LogicalZ)
	})

	t.Run("faulted runs pass through capture", func(t *testing.T) {
		res, err := p.Run(Request{Source: s13, Target: s17, Error: pauli.X, ErrorQubit: 0})
		require.NoError(t, err)
		assert.Equal(t, StateMeasured, res.Final)
		require.Len(t, res.Syndrome, 8)
	})

	t.Run("deterministic across cycles", func(t *testing.T) {
		for _, c := range []struct {
			src, tgt *code.Definition
		}{
			{s13, s17},
			{s17, s13},
		} {
			req := Request{Source: c.src, Target: c.tgt, Initial: 1, ErrorQubit: NoErrorQubit}
			results, err := p.RunCycles(req, 3)
			require.NoError(t, err)
			require.Len(t, results, 3)
			for _, res := range results[1:] {
				assert.Empty(t, cmp.Diff(results[0].Syndrome, res.Syndrome))
				assert.Equal(t, results[0].LogicalZ, res.LogicalZ)
				assert.Equal(t, results[0].Decision.Bit, res.Decision.Bit)
			}
		}
	})
}

func TestRunCyclesCount(t *testing.T) {
	p := NewPipeline(nil)
	_, err := p.RunCycles(Request{Source: code.Surface13(), ErrorQubit: NoErrorQubit}, 0)
	assert.Error(t, err)
}
