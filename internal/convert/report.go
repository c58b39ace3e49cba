package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tolerance is the absolute distance within which an expectation value is
// snapped to the nearest integer. Stabilizer readouts on the exact engine
// are integers up to float arithmetic; anything further off is reported
// verbatim.
const Tolerance = 1e-9

// Snap rounds v to the nearest integer when it is within Tolerance of one.
// Negative zero normalizes to zero.
func Snap(v float64) float64 {
	n := math.Round(v)
	if math.Abs(v-n) <= Tolerance {
		if n == 0 {
			return 0
		}
		return n
	}
	return v
}

// formatValue prints an expectation the way the reference CLI does:
// integral values with one decimal ("1.0", "-1.0", "0.0"), everything else
// at full shortest-round-trip precision.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// syndromeHeading names the checks in a syndrome line: every name when the
// code has at most four checks, a first..last range otherwise.
func syndromeHeading(r *Result) string {
	names := make([]string, 0, len(r.Code.Stabilizers))
	for _, s := range r.Code.Stabilizers {
		names = append(names, s.Name)
	}
	if len(names) <= 4 {
		return strings.Join(names, ",")
	}
	return names[0] + ".." + names[len(names)-1]
}

// Render produces the run's report lines in the exact boundary format.
func (r *Result) Render() []string {
	vals := make([]string, 0, len(r.Syndrome))
	for _, v := range r.Syndrome {
		vals = append(vals, formatValue(v))
	}
	var lines []string
	if r.Converted {
		lines = append(lines, fmt.Sprintf("Converted from %s to %s:", r.Source, r.Target))
	} else {
		lines = append(lines, fmt.Sprintf("%s results:", r.Code.Label))
	}
	lines = append(lines,
		fmt.Sprintf("Syndrome (%s): [%s]", syndromeHeading(r), strings.Join(vals, ", ")),
		fmt.Sprintf("Logical Z expectation: %s", formatValue(r.LogicalZ)))
	return lines
}
