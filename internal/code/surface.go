package code

import "fmt"

// The two built-in codes. Both encode one logical qubit into nine data
// qubits at distance 3; they differ in the number of checks and in layout.
//
// Surface-13 is the compact 3x3 layout with four boundary checks: X checks
// on the left and right columns, Z checks on the top and bottom rows. Its X
// and Z checks share single corner qubits and therefore anticommute, so the
// four checks have no simultaneous +1 eigenstate; the ancilla readout of an
// X check on the bare register is maximally undetermined, which is why the
// compact code's ideal syndrome reads 0.0 rather than +1.0. Only the
// per-basis validity holds for it (validateStructure, not Validate).
//
// Surface-17 is the standard distance-3 surface code (arXiv:1404.3747) with
// four X and four Z plaquette checks; it passes the full Validate check.
var (
	surface13 = mustDefinition(&Definition{
		Name:          "surface13",
		Label:         "Surface-13",
		DataQubits:    9,
		AncillaQubits: 4,
		Stabilizers: []Stabilizer{
			{Name: "S1", Basis: BasisX, Data: []int{0, 3, 6}, Ancilla: 9},  // left column
			{Name: "S2", Basis: BasisZ, Data: []int{0, 1, 2}, Ancilla: 10}, // top row
			{Name: "S3", Basis: BasisZ, Data: []int{6, 7, 8}, Ancilla: 11}, // bottom row
			{Name: "S4", Basis: BasisX, Data: []int{2, 5, 8}, Ancilla: 12}, // right column
		},
		LogicalX:         []int{0, 1, 2},
		LogicalZ:         []int{0, 3, 6},
		ConjugateReadout: true,
	})

	surface17 = mustDefinition(&Definition{
		Name:          "surface17",
		Label:         "Surface-17",
		DataQubits:    9,
		AncillaQubits: 8,
		Stabilizers: []Stabilizer{
			{Name: "S1", Basis: BasisX, Data: []int{0, 1, 3, 4}, Ancilla: 9},
			{Name: "S2", Basis: BasisX, Data: []int{1, 2}, Ancilla: 10},
			{Name: "S3", Basis: BasisX, Data: []int{4, 5, 7, 8}, Ancilla: 11},
			{Name: "S4", Basis: BasisX, Data: []int{6, 7}, Ancilla: 12},
			{Name: "S5", Basis: BasisZ, Data: []int{0, 3}, Ancilla: 13},
			{Name: "S6", Basis: BasisZ, Data: []int{1, 2, 4, 5}, Ancilla: 14},
			{Name: "S7", Basis: BasisZ, Data: []int{3, 4, 6, 7}, Ancilla: 15},
			{Name: "S8", Basis: BasisZ, Data: []int{5, 8}, Ancilla: 16},
		},
		LogicalX:    []int{2, 4, 6},
		LogicalZ:    []int{0, 4, 8},
		AncillaPrep: true,
	})
)

func mustDefinition(d *Definition) *Definition {
	if err := d.validateStructure(); err != nil {
		panic(err)
	}
	return d
}

// Surface13 returns the compact four-check code.
func Surface13() *Definition { return surface13 }

// Surface17 returns the standard eight-check code.
func Surface17() *Definition { return surface17 }

// Names lists the recognized code names in boundary order.
func Names() []string { return []string{"surface13", "surface17"} }

// ByName resolves a boundary code name to its definition.
func ByName(name string) (*Definition, error) {
	switch name {
	case "surface13":
		return surface13, nil
	case "surface17":
		return surface17, nil
	}
	return nil, fmt.Errorf("%w: %q (want surface13 or surface17)", ErrUnknownCode, name)
}
