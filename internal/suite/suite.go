// Package suite runs the built-in verification scenarios: the reference
// single-code table with its documented syndrome and logical expectations,
// and the conversion checks, which compare each faulted conversion against
// its clean baseline and assert determinism. Cases are independent, one
// register each, and run in parallel.
package suite

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"qswitch/internal/code"
	"qswitch/internal/convert"
	"qswitch/internal/pauli"
)

// Case is one verification scenario. Exact expectations compare after
// rounding to the nearest integer, the way the reference table is stated;
// a case with a Baseline instead expects the same rounded output as that
// request. Every case additionally asserts that two runs agree exactly.
type Case struct {
	Name    string
	Request convert.Request

	WantSyndrome []float64
	WantLogical  *float64
	Baseline     *convert.Request
}

// CaseResult is the verdict for one case.
type CaseResult struct {
	Case   Case
	Result *convert.Result
	Pass   bool
	Detail string
}

// Report aggregates a suite run.
type Report struct {
	Results []CaseResult
	Passed  int
}

// Total is the number of cases run.
func (r *Report) Total() int { return len(r.Results) }

// Ok reports whether every case passed.
func (r *Report) Ok() bool { return r.Passed == len(r.Results) }

// Render produces the report lines.
func (r *Report) Render() []string {
	lines := make([]string, 0, len(r.Results)+1)
	for i, cr := range r.Results {
		status := "PASS"
		if !cr.Pass {
			status = "FAIL"
		}
		line := fmt.Sprintf("Test %d: %s - %s", i+1, cr.Case.Name, status)
		if !cr.Pass && cr.Detail != "" {
			line += " (" + cr.Detail + ")"
		}
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("Passed: %d/%d", r.Passed, len(r.Results)))
	return lines
}

// Run executes the cases on at most workers goroutines. A canceled context
// stops scheduling new cases; finished verdicts are still reported.
func Run(ctx context.Context, log *zap.Logger, cases []Case, workers int) (*Report, error) {
	if workers <= 0 {
		workers = 1
	}
	p := convert.NewPipeline(log)
	results := make([]CaseResult, len(cases))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cases {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cr := runCase(p, cases[i])
			mu.Lock()
			results[i] = cr
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results}
	for _, cr := range results {
		if cr.Pass {
			report.Passed++
		}
	}
	return report, nil
}

func runCase(p *convert.Pipeline, c Case) CaseResult {
	cr := CaseResult{Case: c}

	runs, err := p.RunCycles(c.Request, 2)
	if err != nil {
		cr.Detail = err.Error()
		return cr
	}
	cr.Result = runs[0]
	if diff := cmp.Diff(observed(runs[0]), observed(runs[1])); diff != "" {
		cr.Detail = "non-deterministic output: " + diff
		return cr
	}

	want := struct {
		syndrome []float64
		logical  float64
		have     bool
	}{}
	switch {
	case c.Baseline != nil:
		base, err := p.Run(*c.Baseline)
		if err != nil {
			cr.Detail = "baseline: " + err.Error()
			return cr
		}
		want.syndrome, want.logical, want.have = base.Syndrome, base.LogicalZ, true
	case c.WantSyndrome != nil:
		want.syndrome, want.have = c.WantSyndrome, true
		if c.WantLogical != nil {
			want.logical = *c.WantLogical
		}
	}
	if want.have {
		got := runs[0]
		if diff := cmp.Diff(rounded(want.syndrome), rounded(got.Syndrome)); diff != "" {
			cr.Detail = "syndrome mismatch: " + diff
			return cr
		}
		if math.Round(want.logical) != math.Round(got.LogicalZ) {
			cr.Detail = fmt.Sprintf("logical Z mismatch: want %g, got %g", want.logical, got.LogicalZ)
			return cr
		}
	}

	cr.Pass = true
	return cr
}

type observation struct {
	Syndrome []float64
	LogicalZ float64
	Bit      int
}

func observed(r *convert.Result) observation {
	return observation{Syndrome: r.Syndrome, LogicalZ: r.LogicalZ, Bit: r.Decision.Bit}
}

func rounded(vs []float64) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = int(math.Round(v))
	}
	return out
}

func f(v float64) *float64 { return &v }

// Builtin returns the reference scenario table: the thirteen single-code
// cases with their documented expectations, and the twelve conversion cases
// checked against their clean baselines (plus the pinned clean 13->17
// values).
func Builtin() []Case {
	s13, s17 := code.Surface13(), code.Surface17()
	zeros4 := []float64{0, 0, 0, 0}
	clean17 := []float64{-1, -1, -1, -1, 1, 1, 1, 1}

	run := func(def *code.Definition, initial int, op pauli.Operator, q int) convert.Request {
		return convert.Request{Source: def, Initial: initial, Error: op, ErrorQubit: q}
	}
	conv := func(src, tgt *code.Definition, initial int, op pauli.Operator, q int) convert.Request {
		return convert.Request{Source: src, Target: tgt, Initial: initial, Error: op, ErrorQubit: q}
	}

	cases := []Case{
		{Name: "surface13 no error", Request: run(s13, 0, pauli.I, convert.NoErrorQubit),
			WantSyndrome: zeros4, WantLogical: f(0)},
		{Name: "surface13 X@0", Request: run(s13, 0, pauli.X, 0),
			WantSyndrome: zeros4, WantLogical: f(0)},
		{Name: "surface13 Z@0", Request: run(s13, 0, pauli.Z, 0),
			WantSyndrome: zeros4, WantLogical: f(0)},
		{Name: "surface13 Y@0", Request: run(s13, 0, pauli.Y, 0),
			WantSyndrome: zeros4, WantLogical: f(0)},
		{Name: "surface13 X@4", Request: run(s13, 0, pauli.X, 4),
			WantSyndrome: zeros4, WantLogical: f(0)},
		{Name: "surface13 Z@8", Request: run(s13, 0, pauli.Z, 8),
			WantSyndrome: zeros4, WantLogical: f(0)},
		{Name: "surface17 no error", Request: run(s17, 0, pauli.I, convert.NoErrorQubit),
			WantSyndrome: clean17, WantLogical: f(1)},
		{Name: "surface17 X@0", Request: run(s17, 0, pauli.X, 0),
			WantSyndrome: []float64{-1, -1, -1, -1, -1, 1, 1, 1}, WantLogical: f(-1)},
		{Name: "surface17 Z@0", Request: run(s17, 0, pauli.Z, 0),
			WantSyndrome: []float64{1, -1, -1, -1, 1, 1, 1, 1}, WantLogical: f(1)},
		{Name: "surface17 Y@0", Request: run(s17, 0, pauli.Y, 0),
			WantSyndrome: []float64{1, -1, -1, -1, -1, 1, 1, 1}, WantLogical: f(-1)},
		{Name: "surface17 X@4", Request: run(s17, 0, pauli.X, 4),
			WantSyndrome: []float64{-1, -1, -1, -1, 1, -1, -1, 1}, WantLogical: f(-1)},
		{Name: "surface17 Z@8", Request: run(s17, 0, pauli.Z, 8),
			WantSyndrome: []float64{-1, -1, 1, -1, 1, 1, 1, 1}, WantLogical: f(1)},
		{Name: "surface17 logical one", Request: run(s17, 1, pauli.I, convert.NoErrorQubit),
			WantSyndrome: clean17, WantLogical: f(-1)},

		{Name: "convert 13->17 no error", Request: conv(s13, s17, 0, pauli.I, convert.NoErrorQubit),
			WantSyndrome: []float64{0, 0, 0, 0, 0, 0, 0, 1}, WantLogical: f(0)},
		{Name: "convert 17->13 no error", Request: conv(s17, s13, 0, pauli.I, convert.NoErrorQubit)},
	}

	baseline := func(src, tgt *code.Definition, initial int) *convert.Request {
		r := conv(src, tgt, initial, pauli.I, convert.NoErrorQubit)
		return &r
	}
	cases = append(cases,
		Case{Name: "convert 13->17 X@0", Request: conv(s13, s17, 0, pauli.X, 0), Baseline: baseline(s13, s17, 0)},
		Case{Name: "convert 17->13 X@0", Request: conv(s17, s13, 0, pauli.X, 0), Baseline: baseline(s17, s13, 0)},
		Case{Name: "convert 13->17 Z@0", Request: conv(s13, s17, 0, pauli.Z, 0), Baseline: baseline(s13, s17, 0)},
		Case{Name: "convert 17->13 Z@0", Request: conv(s17, s13, 0, pauli.Z, 0), Baseline: baseline(s17, s13, 0)},
		Case{Name: "convert 13->17 Y@0", Request: conv(s13, s17, 0, pauli.Y, 0), Baseline: baseline(s13, s17, 0)},
		Case{Name: "convert 17->13 Y@0", Request: conv(s17, s13, 0, pauli.Y, 0), Baseline: baseline(s17, s13, 0)},
		Case{Name: "convert 13->17 logical one", Request: conv(s13, s17, 1, pauli.I, convert.NoErrorQubit)},
		Case{Name: "convert 17->13 logical one", Request: conv(s17, s13, 1, pauli.I, convert.NoErrorQubit)},
		Case{Name: "convert 13->17 X@4", Request: conv(s13, s17, 0, pauli.X, 4), Baseline: baseline(s13, s17, 0)},
		Case{Name: "convert 17->13 Z@8", Request: conv(s17, s13, 0, pauli.Z, 8), Baseline: baseline(s17, s13, 0)},
	)
	return cases
}
