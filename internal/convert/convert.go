// Package convert orchestrates runs: single-code syndrome-extraction cycles
// and the code-switching protocol between the two built-ins. It owns the
// run state machine and the measurement report.
package convert

import (
	"fmt"

	"go.uber.org/zap"

	"qswitch/internal/code"
	"qswitch/internal/encode"
	"qswitch/internal/fault"
	"qswitch/internal/pauli"
	"qswitch/internal/qsim"
)

// State names a phase of the run state machine. Transitions are strictly
// forward; a run that fails mid-flight reports the phase it reached.
type State byte

const (
	StateIdle State = iota
	StateEncoded
	StateFaulted
	StateExtracted
	StateReEncoded
	StateMeasured
)

var stateNames = [...]string{"idle", "encoded", "faulted", "extracted", "re-encoded", "measured"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", byte(s))
}

// NoErrorQubit is the ErrorQubit sentinel for requests without a fault.
const NoErrorQubit = -1

// Request describes one run. Target nil means a plain single-code run;
// otherwise the logical state is switched from Source to Target and read out
// in the target's basis.
type Request struct {
	Source *code.Definition
	Target *code.Definition
	// Initial is the logical bit to prepare, 0 or 1.
	Initial int
	// Error and ErrorQubit select the injected fault; pauli.I with
	// ErrorQubit == NoErrorQubit means a clean run.
	Error      pauli.Operator
	ErrorQubit int
	DecodeMode encode.DecodeMode
	// Projected selects the exact code-space preparation for plain runs
	// instead of the ancilla-projected circuit.
	Projected bool
}

// Converted reports whether the request switches codes.
func (r *Request) Converted() bool {
	return r.Target != nil && r.Target.Name != r.Source.Name
}

// Validate checks the request boundary invariants before any state is
// allocated.
func (r *Request) Validate() error {
	if r.Source == nil {
		return fmt.Errorf("request needs a source code")
	}
	if r.Initial != 0 && r.Initial != 1 {
		return fmt.Errorf("initial logical state must be 0 or 1, got %d", r.Initial)
	}
	if !r.Error.Valid() {
		return &pauli.InvalidOperatorError{Symbol: fmt.Sprintf("%d", byte(r.Error))}
	}
	if r.Error != pauli.I && r.ErrorQubit == NoErrorQubit {
		return fmt.Errorf("error type %s needs an error qubit", r.Error)
	}
	if r.Error == pauli.I && r.ErrorQubit != NoErrorQubit {
		return fmt.Errorf("error qubit %d needs an error type", r.ErrorQubit)
	}
	if r.Projected && r.Converted() {
		return fmt.Errorf("projected encoding applies to plain runs only")
	}
	return nil
}

// Result is one run's measurement report. Syndrome values and the logical
// expectation are snapped to integers when within Tolerance, per the exact
// readout contract; Decision carries the unsnapped decode.
type Result struct {
	Code      *code.Definition // the code whose checks were read
	Source    string
	Target    string // empty for plain runs
	Converted bool
	Syndrome  []float64
	LogicalZ  float64
	Decision  encode.Decision
	Final     State
}

// Pipeline runs requests. It is stateless and safe for concurrent use; each
// run owns its StateVector.
type Pipeline struct {
	log *zap.Logger
}

// NewPipeline returns a pipeline logging to the given logger. A nil logger
// keeps the core silent.
func NewPipeline(log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{log: log}
}

type run struct {
	state State
	log   *zap.Logger
}

func (r *run) advance(next State) {
	r.log.Debug("state transition",
		zap.Stringer("from", r.state),
		zap.Stringer("to", next))
	r.state = next
}

// Run executes one request end to end.
func (p *Pipeline) Run(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Converted() {
		return p.runConversion(req)
	}
	return p.runSingle(req)
}

// RunCycles executes the same request n times, each on a fresh register.
// The engine is exact, so every cycle must report identical values; callers
// use this to demonstrate determinism.
func (p *Pipeline) RunCycles(req Request, n int) ([]*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cycle count must be positive, got %d", n)
	}
	out := make([]*Result, 0, n)
	for i := 0; i < n; i++ {
		res, err := p.Run(req)
		if err != nil {
			return nil, fmt.Errorf("cycle %d: %w", i, err)
		}
		out = append(out, res)
	}
	return out, nil
}

func (p *Pipeline) runSingle(req Request) (*Result, error) {
	def := req.Source
	log := p.log.With(zap.String("code", def.Name))
	r := &run{log: log}

	s, err := qsim.New(def.TotalQubits())
	if err != nil {
		return nil, err
	}
	enc := encode.New(def)

	prep := enc.Encode(req.Initial)
	if req.Projected {
		prep, err = enc.Projected(req.Initial)
		if err != nil {
			return nil, err
		}
	}
	if err := prep.Run(s); err != nil {
		return nil, fmt.Errorf("preparation: %w", err)
	}
	r.advance(StateEncoded)

	if req.Error != pauli.I {
		if err := fault.Inject(s, req.Error, req.ErrorQubit, def.DataQubits); err != nil {
			return nil, err
		}
		log.Debug("fault injected",
			zap.Stringer("op", req.Error),
			zap.Int("qubit", req.ErrorQubit))
		r.advance(StateFaulted)
	}

	var syndrome []float64
	if req.Projected {
		// The projected preparation leaves the ancillas untouched; the
		// checks are read directly as data-qubit observables.
		for _, st := range def.Stabilizers {
			v, err := s.Expectation(st.Observable())
			if err != nil {
				return nil, err
			}
			syndrome = append(syndrome, Snap(v))
		}
	} else {
		if err := enc.Syndrome().Run(s); err != nil {
			return nil, fmt.Errorf("syndrome extraction: %w", err)
		}
		for _, obs := range enc.AncillaObservables() {
			v, err := s.Expectation(obs)
			if err != nil {
				return nil, err
			}
			syndrome = append(syndrome, Snap(v))
		}
	}

	lz, err := s.Expectation(def.LogicalZString())
	if err != nil {
		return nil, err
	}
	decision, err := enc.Decode(s, req.DecodeMode)
	if err != nil {
		return nil, err
	}
	r.advance(StateMeasured)
	log.Debug("run measured",
		zap.Float64s("syndrome", syndrome),
		zap.Float64("logical_z", lz),
		zap.Int("decoded_bit", decision.Bit))

	return &Result{
		Code:     def,
		Source:   def.Name,
		Syndrome: syndrome,
		LogicalZ: Snap(lz),
		Decision: decision,
		Final:    r.state,
	}, nil
}

func (p *Pipeline) runConversion(req Request) (*Result, error) {
	src, tgt := req.Source, req.Target
	log := p.log.With(
		zap.String("source", src.Name),
		zap.String("target", tgt.Name))
	r := &run{log: log}

	wires := src.TotalQubits()
	if tgt.TotalQubits() > wires {
		wires = tgt.TotalQubits()
	}
	wires++ // link wire for the transfer gadget
	link := src.DataQubits

	s, err := qsim.New(wires)
	if err != nil {
		return nil, err
	}
	srcEnc, tgtEnc := encode.New(src), encode.New(tgt)

	if err := srcEnc.TransferEncode(req.Initial).Run(s); err != nil {
		return nil, fmt.Errorf("source encoding: %w", err)
	}
	r.advance(StateEncoded)

	if req.Error != pauli.I {
		if err := fault.Inject(s, req.Error, req.ErrorQubit, src.DataQubits); err != nil {
			return nil, err
		}
		if err := srcEnc.Capture(req.ErrorQubit).Run(s); err != nil {
			return nil, fmt.Errorf("syndrome capture: %w", err)
		}
		log.Debug("fault injected and captured",
			zap.Stringer("op", req.Error),
			zap.Int("qubit", req.ErrorQubit))
		r.advance(StateFaulted)
	}

	if err := srcEnc.TransferOut(req.Initial, link).Run(s); err != nil {
		return nil, fmt.Errorf("logical extraction: %w", err)
	}
	r.advance(StateExtracted)

	if err := tgtEnc.TargetEncode(req.Initial).Run(s); err != nil {
		return nil, fmt.Errorf("target encoding: %w", err)
	}
	r.advance(StateReEncoded)

	syndrome := make([]float64, 0, len(tgt.Stabilizers))
	for _, st := range tgt.Stabilizers {
		v, err := s.Expectation(tgt.TransferObservable(st))
		if err != nil {
			return nil, err
		}
		syndrome = append(syndrome, Snap(v))
	}
	lz, err := s.Expectation(tgt.LogicalZString())
	if err != nil {
		return nil, err
	}
	decision, err := tgtEnc.Decode(s, req.DecodeMode)
	if err != nil {
		return nil, err
	}
	r.advance(StateMeasured)
	log.Debug("conversion measured",
		zap.Float64s("syndrome", syndrome),
		zap.Float64("logical_z", lz),
		zap.Int("decoded_bit", decision.Bit))

	return &Result{
		Code:      tgt,
		Source:    src.Name,
		Target:    tgt.Name,
		Converted: true,
		Syndrome:  syndrome,
		LogicalZ:  Snap(lz),
		Decision:  decision,
		Final:     r.state,
	}, nil
}
