// Package encode builds the gate sequences for logical-state preparation,
// syndrome extraction, and the code-switching transfer protocol, and decodes
// logical readout back to a classical bit. All circuits are emitted against
// a register laid out per the code definition: data wires first, then the
// readout ancillas.
package encode

import (
	"fmt"
	"math"

	"qswitch/internal/circuit"
	"qswitch/internal/code"
	"qswitch/internal/pauli"
	"qswitch/internal/qsim"
)

const halfPi = math.Pi / 2

// Encoder emits circuits for one code definition.
type Encoder struct {
	def *code.Definition
}

// New returns an encoder for the given code.
func New(def *code.Definition) *Encoder { return &Encoder{def: def} }

// Definition returns the code this encoder targets.
func (e *Encoder) Definition() *code.Definition { return e.def }

// Preparation is the logical-zero preparation used in single-code runs.
// Codes with ancilla-projected preparation push each X check through its
// ancilla (H, fan-out CNOTs, H) and flip the ancilla back to |0> afterwards;
// the compact code prepares logical zero as the bare all-zeros register and
// emits no gates.
func (e *Encoder) Preparation() *circuit.Circuit {
	c := circuit.New()
	if !e.def.AncillaPrep {
		return c
	}
	for _, s := range e.def.XStabilizers() {
		c.H(s.Ancilla)
		for _, d := range s.Data {
			c.CNOT(s.Ancilla, d)
		}
		c.H(s.Ancilla)
		c.X(s.Ancilla)
	}
	return c
}

// Encode prepares logical |bit>: the logical-zero preparation followed by
// the logical X operator when bit is 1.
func (e *Encoder) Encode(bit int) *circuit.Circuit {
	c := e.Preparation()
	if bit == 1 {
		for _, q := range e.def.LogicalX {
			c.X(q)
		}
	}
	return c
}

// Syndrome is the ancilla-readout cycle: every generator in declaration
// order, X checks via H / fan-out CNOTs / H on their ancilla, Z checks via
// parity CNOTs from data into their ancilla. The ancillas are then read in
// the Z basis by the caller.
func (e *Encoder) Syndrome() *circuit.Circuit {
	c := circuit.New()
	for _, s := range e.def.Stabilizers {
		switch s.Basis {
		case code.BasisX:
			c.H(s.Ancilla)
			for _, d := range s.Data {
				c.CNOT(s.Ancilla, d)
			}
			c.H(s.Ancilla)
		case code.BasisZ:
			for _, d := range s.Data {
				c.CNOT(d, s.Ancilla)
			}
		}
	}
	return c
}

// AncillaObservables returns the Z readout observable for each generator's
// ancilla, in declaration order.
func (e *Encoder) AncillaObservables() []pauli.String {
	out := make([]pauli.String, 0, len(e.def.Stabilizers))
	for _, s := range e.def.Stabilizers {
		out = append(out, pauli.NewString(pauli.Z, s.Ancilla))
	}
	return out
}

// TransferEncode is the data-only preparation used on the source side of a
// conversion: each X check applied as a GHZ block on its own data qubits
// (H on the first, fan-out CNOTs, H back), then the logical X when bit is 1.
// No ancillas are touched.
func (e *Encoder) TransferEncode(bit int) *circuit.Circuit {
	c := circuit.New()
	for _, s := range e.def.XStabilizers() {
		ghzBlock(c, s.Data)
	}
	if bit == 1 {
		for _, q := range e.def.LogicalX {
			c.X(q)
		}
	}
	return c
}

// captureChecks names the generators probed inline after a fault on the
// source side of a conversion, per code. Only the boundary checks take part.
var captureChecks = map[string][]string{
	"surface13": {"S1", "S4"},
	"surface17": {"S1", "S8"},
}

// Capture emits the inline syndrome probe run right after a fault on data
// qubit q during a conversion. Each captured check whose support contains q
// is applied directly on the data qubits: X checks as a GHZ block, Z checks
// as a CZ chain from their first qubit. Faults outside every captured
// support produce no gates.
func (e *Encoder) Capture(q int) *circuit.Circuit {
	c := circuit.New()
	names := captureChecks[e.def.Name]
	for _, s := range e.def.Stabilizers {
		if !contains(names, s.Name) || !containsInt(s.Data, q) {
			continue
		}
		switch s.Basis {
		case code.BasisX:
			ghzBlock(c, s.Data)
		case code.BasisZ:
			czChain(c, s.Data)
		}
	}
	return c
}

// TransferOut extracts the logical state onto data qubit 0 ahead of the
// target encoding. For logical one it parity-checks the logical Z operator
// through the link wire, copies the outcome onto qubit 0, and walks the link
// wire back down with an RY pair. Logical zero needs no extraction.
func (e *Encoder) TransferOut(bit, link int) *circuit.Circuit {
	c := circuit.New()
	if bit != 1 {
		return c
	}
	c.H(link)
	for _, q := range e.def.LogicalZ {
		c.CNOT(link, q)
	}
	c.H(link)
	c.CNOT(link, 0)
	c.RY(-halfPi, link)
	c.RY(halfPi, link)
	return c
}

// TargetEncode re-encodes the logical state held on data qubit 0 into this
// code: RY resets on qubits 1..8, a CNOT fan-out from qubit 0, the X checks
// as GHZ blocks, the Z checks as CZ chains, and the logical X when bit is 1.
func (e *Encoder) TargetEncode(bit int) *circuit.Circuit {
	c := circuit.New()
	for q := 1; q < e.def.DataQubits; q++ {
		c.RY(-halfPi, q)
		c.RY(halfPi, q)
	}
	for q := 1; q < e.def.DataQubits; q++ {
		c.CNOT(0, q)
	}
	for _, s := range e.def.XStabilizers() {
		ghzBlock(c, s.Data)
	}
	for _, s := range e.def.ZStabilizers() {
		czChain(c, s.Data)
	}
	if bit == 1 {
		for _, q := range e.def.LogicalX {
			c.X(q)
		}
	}
	return c
}

// Projected builds the exact codeword superposition for logical |bit>: the
// X-check supports are row-reduced over GF(2), and each independent row
// becomes an H on its pivot qubit plus CNOTs onto the rest of its support.
// The resulting state is a +1 eigenstate of every generator with logical Z
// reading exactly 1-2·bit. Codes whose logical Z anticommutes with an X
// check (the compact layout) have no such state and get an error.
func (e *Encoder) Projected(bit int) (*circuit.Circuit, error) {
	lz := e.def.LogicalZString()
	for _, s := range e.def.XStabilizers() {
		if !s.Observable().CommutesWith(lz) {
			return nil, fmt.Errorf("code %s: generator %s anticommutes with logical Z, no projected codeword exists", e.def.Name, s.Name)
		}
	}

	rows := make([]uint, 0, len(e.def.XStabilizers()))
	for _, s := range e.def.XStabilizers() {
		var m uint
		for _, q := range s.Data {
			m |= 1 << q
		}
		rows = append(rows, m)
	}
	rows = rowReduce(rows, e.def.DataQubits)

	c := circuit.New()
	for _, row := range rows {
		pivot := -1
		for q := 0; q < e.def.DataQubits; q++ {
			if row&(1<<q) != 0 {
				pivot = q
				break
			}
		}
		c.H(pivot)
		for q := pivot + 1; q < e.def.DataQubits; q++ {
			if row&(1<<q) != 0 {
				c.CNOT(pivot, q)
			}
		}
	}
	if bit == 1 {
		for _, q := range e.def.LogicalX {
			c.X(q)
		}
	}
	return c, nil
}

// rowReduce brings bitmask rows to reduced row-echelon form over GF(2) and
// drops dependent rows. Each pivot column ends up set in exactly one row.
func rowReduce(rows []uint, cols int) []uint {
	r := 0
	for col := 0; col < cols && r < len(rows); col++ {
		pivot := -1
		for i := r; i < len(rows); i++ {
			if rows[i]&(1<<col) != 0 {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			continue
		}
		rows[r], rows[pivot] = rows[pivot], rows[r]
		for i := range rows {
			if i != r && rows[i]&(1<<col) != 0 {
				rows[i] ^= rows[r]
			}
		}
		r++
	}
	out := rows[:0]
	for _, row := range rows[:r] {
		if row != 0 {
			out = append(out, row)
		}
	}
	return out
}

func ghzBlock(c *circuit.Circuit, data []int) {
	c.H(data[0])
	for _, d := range data[1:] {
		c.CNOT(data[0], d)
	}
	c.H(data[0])
}

func czChain(c *circuit.Circuit, data []int) {
	for _, d := range data[1:] {
		c.CZ(data[0], d)
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func containsInt(xs []int, n int) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}

// DecodeMode selects how a logical readout is interpreted.
type DecodeMode byte

const (
	// DecodeRaw takes the sign of the logical Z expectation as-is.
	DecodeRaw DecodeMode = iota
	// DecodeSyndromeAssisted measures the Z checks on the data qubits
	// first and undoes a recognized single-qubit X error before reading
	// the sign.
	DecodeSyndromeAssisted
)

func (m DecodeMode) String() string {
	if m == DecodeSyndromeAssisted {
		return "syndrome"
	}
	return "raw"
}

// ParseDecodeMode maps a boundary string to a DecodeMode. "raw" and the
// empty string select raw decoding, "syndrome" the assisted path.
func ParseDecodeMode(s string) (DecodeMode, error) {
	switch s {
	case "", "raw":
		return DecodeRaw, nil
	case "syndrome":
		return DecodeSyndromeAssisted, nil
	}
	return DecodeRaw, fmt.Errorf("unknown decode mode %q (want raw or syndrome)", s)
}

// Decision is the outcome of decoding a logical readout.
type Decision struct {
	Bit      int
	LogicalZ float64 // expectation actually used for the sign, post-correction
	Flipped  []string
	// Correction is the inferred physical error undone by the assisted
	// path, nil when none was recognized or needed.
	Correction *pauli.Term
}

// Decode reads the logical Z expectation from the state and maps it to a
// classical bit. The state is not collapsed. The assisted mode additionally
// measures every Z check as a data-qubit observable and, when the flip
// pattern matches a single-qubit X error, flips the logical sign back if
// that qubit sits on the logical Z support.
func (e *Encoder) Decode(s *qsim.StateVector, mode DecodeMode) (Decision, error) {
	lz, err := s.Expectation(e.def.LogicalZString())
	if err != nil {
		return Decision{}, err
	}
	d := Decision{LogicalZ: lz}

	if mode == DecodeSyndromeAssisted {
		flipped := map[string]bool{}
		for _, st := range e.def.ZStabilizers() {
			v, err := s.Expectation(st.Observable())
			if err != nil {
				return Decision{}, err
			}
			if v < -0.5 {
				flipped[st.Name] = true
				d.Flipped = append(d.Flipped, st.Name)
			}
		}
		if q, ok := e.matchSingleX(flipped); ok {
			d.Correction = &pauli.Term{Op: pauli.X, Qubit: q}
			if containsInt(e.def.LogicalZ, q) {
				d.LogicalZ = -d.LogicalZ
			}
		}
	}

	if d.LogicalZ < 0 {
		d.Bit = 1
	}
	return d, nil
}

// matchSingleX finds the data qubit whose single X error flips exactly the
// observed Z checks. Empty flip sets match nothing.
func (e *Encoder) matchSingleX(flipped map[string]bool) (int, bool) {
	if len(flipped) == 0 {
		return 0, false
	}
	for q := 0; q < e.def.DataQubits; q++ {
		match := true
		n := 0
		for _, st := range e.def.ZStabilizers() {
			hit := containsInt(st.Data, q)
			if hit {
				n++
			}
			if hit != flipped[st.Name] {
				match = false
				break
			}
		}
		if match && n > 0 {
			return q, true
		}
	}
	return 0, false
}
