package types

// ---- Probe abstraction ----

// ProbeState is the host's probe-state snapshot. State() implementations may
// run in stepping-interrupt context and must stay allocation-free.
type ProbeState struct {
	Triggered bool
	Connected bool
}

// ---- Machine execution snapshot ----

// MachineState mirrors the host's execution state at a point in time.
type MachineState uint8

const (
	StateIdle MachineState = iota
	StateCycle
	StateHold
	StateJog
	StateHoming
	StateAlarm
)

// Moving reports whether the state implies active motion execution.
func (s MachineState) Moving() bool {
	switch s {
	case StateCycle, StateJog, StateHoming:
		return true
	default:
		return false
	}
}

// ---- Alarms ----

// AlarmCode identifies a fatal condition raised to the host's fault path.
type AlarmCode uint8

const (
	AlarmNone           AlarmCode = 0
	AlarmSelfTestFailed AlarmCode = 10 // register write failed mid start/stop
)

// ---- Telemetry payloads (retained-bus friendly, as in HAL payload structs) ----

// PulserInfo is the static info payload published once at attach time.
type PulserInfo struct {
	SchemaVersion int    `json:"schema_version"`
	Driver        string `json:"driver"`
	BusAddr       uint16 `json:"bus_addr"`
	LogCapacity   int    `json:"log_capacity"`
}

// SampleValue is one poll result, published while telemetry is enabled.
type SampleValue struct {
	NPulse uint8 `json:"n_pulse"`
	RPulse uint8 `json:"r_pulse"`
	RShort uint8 `json:"r_short"`
	ROpen  uint8 `json:"r_open"`
	Motion bool  `json:"motion"`
}
