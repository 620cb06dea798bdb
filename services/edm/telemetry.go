package edm

import (
	"edmcode-go/bus"
	"edmcode-go/types"
)

// Telemetry publishes controller events for host-side diagnostics. Every
// publish is non-blocking (the bus drops the oldest queued message on
// overflow), so the poll hook can never stall on a slow subscriber.
type Telemetry struct {
	conn *bus.Connection
}

// NewTelemetry wraps a bus connection.
func NewTelemetry(conn *bus.Connection) *Telemetry {
	return &Telemetry{conn: conn}
}

// EmitInfo publishes the static device info, retained for late subscribers.
func (t *Telemetry) EmitInfo(info types.PulserInfo) {
	t.conn.Publish(t.conn.NewMessage(bus.T("edm", "info"), info, true))
}

// EmitSample publishes one poll result.
func (t *Telemetry) EmitSample(s types.SampleValue) {
	t.conn.Publish(t.conn.NewMessage(bus.T("edm", "sample"), s, false))
}
