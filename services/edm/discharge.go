package edm

import (
	"edmcode-go/drivers/pulser"
	"edmcode-go/errcode"
	"edmcode-go/types"
	"edmcode-go/x/mathx"
)

// Command parameter ranges and defaults. Command units: µs, amps, percent.
const (
	minDurationUS = 100
	maxDurationUS = 1000
	maxCurrentA   = 20
	minDutyPct    = 1
	maxDutyPct    = 95

	defaultDurationUS = 500
	defaultCurrentA   = 1
	defaultDutyPct    = 25
)

// deciAmps converts amps to the device's deciamp register value, rounded,
// with a floor of 1 so a nonzero request never programs zero current.
func deciAmps(a float32) byte {
	da := int32(a*10 + 0.5)
	return byte(mathx.Clamp(da, 1, 255))
}

// durationReg converts microseconds to the device's 10 µs register units.
func durationReg(us uint16) byte {
	return byte(mathx.Clamp(us/10, 1, 255))
}

// Start energizes the pulser. Valid from Idle; while already energized it
// re-applies parameters and re-asserts the gate. The four registers are
// written in fixed order and the gate is asserted only after all succeed,
// so a partial failure never leaves the pulser energized with stale
// parameters.
func (c *Controller) Start(p pulser.Polarity, durationUS uint16, currentA float32, dutyPct uint8) errcode.Code {
	if c.initStatus.Load() != InitOK {
		return errcode.SelfTestFailed
	}

	duty := mathx.Clamp(dutyPct, minDutyPct, maxDutyPct)

	if err := c.dev.SetPulseCurrent(deciAmps(currentA)); err != nil {
		return c.energizeFailed()
	}
	if err := c.dev.SetPulseDuration(durationReg(durationUS)); err != nil {
		return c.energizeFailed()
	}
	if err := c.dev.SetMaxDuty(duty); err != nil {
		return c.energizeFailed()
	}
	if err := c.dev.SetPolarity(p); err != nil {
		return c.energizeFailed()
	}

	c.gate.Set(true)
	c.energized = true
	c.polarity = p
	return errcode.OK
}

// Stop de-energizes the pulser. Valid from any state.
func (c *Controller) Stop() errcode.Code {
	if c.initStatus.Load() != InitOK {
		return errcode.SelfTestFailed
	}
	return c.forceStop()
}

// forceStop cuts power first, then clears the polarity register. The gate
// stays de-asserted whatever the register write does.
func (c *Controller) forceStop() errcode.Code {
	c.gate.Set(false)
	c.energized = false
	c.polarity = pulser.PolarityOff

	if c.initStatus.Load() != InitOK {
		// Device was never confirmed present; no bus activity.
		return errcode.SelfTestFailed
	}
	if err := c.dev.SetPolarity(pulser.PolarityOff); err != nil {
		c.h.RaiseAlarm(types.AlarmSelfTestFailed)
		return errcode.Error
	}
	return errcode.OK
}

// energizeFailed is the escalation path for a register-write failure during
// Start: the register set may be inconsistent, so power is cut and the
// host's fault path takes over.
func (c *Controller) energizeFailed() errcode.Code {
	c.gate.Set(false)
	c.energized = false
	c.polarity = pulser.PolarityOff
	c.h.RaiseAlarm(types.AlarmSelfTestFailed)
	return errcode.Error
}

// Energized reports the discharge state (cooperative context only).
func (c *Controller) Energized() (bool, pulser.Polarity) {
	return c.energized, c.polarity
}
