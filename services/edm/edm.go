// Package edm is the realtime controller for the EDM discharge pulser. One
// Controller is constructed per device at startup and attached to the host
// firmware's extension registry; all mutable state lives on the Controller,
// never at package level.
//
// Execution contexts: command handling and the realtime poll hook run on the
// host's single cooperative context; only the probe State query runs from
// the stepping interrupt. The values crossing that boundary (current flag,
// counters, init status) are stored atomically at word size; everything else
// needs no synchronization.
package edm

import (
	"sync/atomic"

	"edmcode-go/drivers/pulser"
	"edmcode-go/services/host"
	"edmcode-go/types"
)

// GatePin is the digital output enabling discharge current independent of
// register state.
type GatePin interface {
	Set(high bool)
}

// Init status codes, recorded once during Init and immutable afterwards.
const (
	InitOK          uint32 = 0
	InitBusFailed   uint32 = 1 // temperature-register transfer failed
	InitBadIdentity uint32 = 2 // readback implausible, device likely absent
)

// Controller owns the pulser: discharge state machine, status poller,
// diagnostic log, probe adapter and command surface.
type Controller struct {
	dev  *pulser.Device
	gate GatePin
	h    host.Host

	// Crosses the interrupt boundary; see package comment.
	hasCurrent atomic.Bool
	initStatus atomic.Uint32
	tickCnt    atomic.Uint32
	pollCnt    atomic.Uint32

	// Cooperative context only.
	lastPollUS uint64
	energized  bool
	polarity   pulser.Polarity
	log        ringLog
	lineBuf    []byte
	tel        *Telemetry
}

// New builds a controller for one pulser. Call Init before Attach.
func New(dev *pulser.Device, gate GatePin, h host.Host) *Controller {
	if dev == nil || gate == nil || h == nil {
		panic("edm: nil device, gate or host")
	}
	return &Controller{
		dev:     dev,
		gate:    gate,
		h:       h,
		lineBuf: make([]byte, 0, lineBufCap),
	}
}

// SetTelemetry enables optional bus telemetry. Must be called before Attach.
func (c *Controller) SetTelemetry(t *Telemetry) { c.tel = t }

// Init confirms the device is present and records the init status. Start and
// Stop are refused while the status is nonzero; status queries still work.
func (c *Controller) Init() {
	temp, err := c.dev.Temperature()
	switch {
	case err != nil:
		c.initStatus.Store(InitBusFailed)
	case temp == 0xFF:
		c.initStatus.Store(InitBadIdentity)
	default:
		c.initStatus.Store(InitOK)
	}

	if c.tel != nil {
		c.tel.EmitInfo(types.PulserInfo{
			SchemaVersion: 1,
			Driver:        "edm-pulser",
			BusAddr:       c.dev.Addr(),
			LogCapacity:   LogCapacity,
		})
	}
}

// InitStatus returns the recorded init status code.
func (c *Controller) InitStatus() uint32 { return c.initStatus.Load() }

// Attach registers the controller's hooks with the host registry.
func (c *Controller) Attach(reg *host.Registry) {
	reg.SetProbe(probeAdapter{c})
	reg.AddRealtime(c.onRealtime)
	reg.AddProbeDone(c.onProbeDone)
	reg.AddMCodeHandler(c)
	reg.AddReport(c.reportOptions)
}

// reportOptions contributes the plugin line to the firmware's options report.
func (c *Controller) reportOptions(newOpt bool) {
	if !newOpt {
		c.h.WriteLine("[PLUGIN:EDM v0.1]")
	}
}
