package edm

import (
	"edmcode-go/types"
)

// probeAdapter maps the current-flowing flag onto the host's virtual
// touch-probe abstraction.
type probeAdapter struct {
	c *Controller
}

// Configure is a no-op: this probe type has no directional inversion or
// arming step.
func (probeAdapter) Configure(away, probing bool) {}

// ConnectedToggle is a no-op: the pulser has no connect/disconnect notion.
func (probeAdapter) ConnectedToggle() {}

// State runs in stepping-interrupt context: one atomic load, no bus I/O,
// no allocation.
func (p probeAdapter) State() types.ProbeState {
	return types.ProbeState{
		Triggered: p.c.hasCurrent.Load(),
		Connected: true,
	}
}

// onProbeDone runs when a probe cycle completes, for any reason. The tool
// must never stay energized after a probing motion, so power is cut before
// older completion handlers get their turn.
func (c *Controller) onProbeDone() {
	_ = c.forceStop()
}
