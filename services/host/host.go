// Package host is the integration surface between extension controllers and
// the motion firmware that embeds them. The firmware's original extension
// points are single process-wide function-pointer slots that each plugin
// saves and re-points at itself; here that is an explicit Registry of ordered
// handler chains owned by the program that boots the firmware.
package host

import (
	"edmcode-go/types"
)

// Host exposes the firmware facilities controllers consume. All methods are
// synchronous and callable from the cooperative context; none suspend.
type Host interface {
	// Micros returns the monotonic device clock in microseconds.
	Micros() uint64
	// StepFrequency returns the current stepping-interrupt rate in Hz.
	StepFrequency() uint32
	// RaiseAlarm enters the firmware's fatal fault path.
	RaiseAlarm(code types.AlarmCode)
	// SignalDischargeShort asks the motion layer to retract the tool.
	SignalDischargeShort()
	// WriteLine emits one line on the firmware's report stream.
	WriteLine(line string)
}

// Probe is the firmware's touch-probe triple. State may be called from
// stepping-interrupt context and must complete in small constant time.
type Probe interface {
	Configure(away, probing bool)
	ConnectedToggle()
	State() types.ProbeState
}

// RealtimeFunc runs on every pass of the firmware's main control loop.
type RealtimeFunc func(state types.MachineState)

// ProbeDoneFunc runs when a probe cycle completes, whatever the reason.
type ProbeDoneFunc func()

// ReportFunc contributes to the firmware's options/plugin report.
type ReportFunc func(newOpt bool)
