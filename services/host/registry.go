package host

import (
	"edmcode-go/errcode"
	"edmcode-go/types"
)

// MCodeHandler owns a set of user command codes. Validate and Execute are
// only invoked for codes the handler owns.
type MCodeHandler interface {
	Owns(code uint16) bool
	Validate(b *types.Block) errcode.Code
	Execute(state types.MachineState, b *types.Block) errcode.Code
}

// Registry holds the firmware's extension chains. It is built once at
// startup, before the control loop runs, and is not safe for concurrent
// mutation afterwards.
type Registry struct {
	mcodes    []MCodeHandler // most recently registered first
	realtime  []RealtimeFunc // registration order
	probeDone []ProbeDoneFunc
	reports   []ReportFunc
	probe     Probe
}

func NewRegistry() *Registry { return &Registry{} }

// AddMCodeHandler stacks a handler in front of those already registered,
// so a later plugin gets first claim and forwards what it does not own.
func (r *Registry) AddMCodeHandler(h MCodeHandler) {
	if h == nil {
		panic("host: nil mcode handler")
	}
	r.mcodes = append([]MCodeHandler{h}, r.mcodes...)
}

// AddRealtime appends a control-loop callback; earlier registrations run
// first, matching the firmware's call-previous-then-self chain.
func (r *Registry) AddRealtime(fn RealtimeFunc) {
	if fn == nil {
		panic("host: nil realtime func")
	}
	r.realtime = append(r.realtime, fn)
}

// AddProbeDone stacks a probe-completion callback in front of those already
// registered, so a later plugin can act before delegating.
func (r *Registry) AddProbeDone(fn ProbeDoneFunc) {
	if fn == nil {
		panic("host: nil probe-done func")
	}
	r.probeDone = append([]ProbeDoneFunc{fn}, r.probeDone...)
}

// AddReport appends a report contributor.
func (r *Registry) AddReport(fn ReportFunc) {
	if fn == nil {
		panic("host: nil report func")
	}
	r.reports = append(r.reports, fn)
}

// SetProbe installs the probe triple. The firmware supports exactly one.
func (r *Registry) SetProbe(p Probe) { r.probe = p }

// Probe returns the installed probe, or nil.
func (r *Registry) Probe() Probe { return r.probe }

// ProbeState queries the installed probe; without one the probe reads as
// disconnected and untriggered.
func (r *Registry) ProbeState() types.ProbeState {
	if r.probe == nil {
		return types.ProbeState{}
	}
	return r.probe.State()
}

// ---- Dispatch ----

// Owns reports whether any handler claims the code.
func (r *Registry) Owns(code uint16) bool {
	for _, h := range r.mcodes {
		if h.Owns(code) {
			return true
		}
	}
	return false
}

// Validate runs the owning handler's validator; unowned codes are Unhandled.
func (r *Registry) Validate(b *types.Block) errcode.Code {
	for _, h := range r.mcodes {
		if h.Owns(b.Code) {
			return h.Validate(b)
		}
	}
	return errcode.Unhandled
}

// Execute runs the owning handler; unowned codes are Unhandled.
func (r *Registry) Execute(state types.MachineState, b *types.Block) errcode.Code {
	for _, h := range r.mcodes {
		if h.Owns(b.Code) {
			return h.Execute(state, b)
		}
	}
	return errcode.Unhandled
}

// OnRealtime invokes every control-loop callback.
func (r *Registry) OnRealtime(state types.MachineState) {
	for _, fn := range r.realtime {
		fn(state)
	}
}

// OnProbeDone invokes every probe-completion callback, newest first.
func (r *Registry) OnProbeDone() {
	for _, fn := range r.probeDone {
		fn()
	}
}

// Report invokes every report contributor in registration order.
func (r *Registry) Report(newOpt bool) {
	for _, fn := range r.reports {
		fn(newOpt)
	}
}
