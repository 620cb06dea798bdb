package edm

import (
	"edmcode-go/types"
)

const (
	// Minimum device-clock interval between samples. The hook itself runs
	// far more often; off-interval ticks are complete no-ops.
	pollIntervalUS = 1000

	// Mid-scale r_short reading above which the motion layer is asked to
	// retract.
	shortThreshold = 127
)

// onRealtime is invoked on every pass of the host's control loop. It never
// suspends: one bounded synchronous block read at most, and only when the
// sample interval has elapsed.
func (c *Controller) onRealtime(state types.MachineState) {
	c.tickCnt.Add(1)

	now := c.h.Micros()
	if now-c.lastPollUS < pollIntervalUS {
		return
	}
	c.lastPollUS = now

	st, err := c.dev.ReadStatus()
	if err != nil {
		// Transport failure degrades to a skipped sample: no flag update,
		// no log entry, counters unchanged.
		return
	}

	c.hasCurrent.Store(st.CurrentFlowing())

	if st.RShort > shortThreshold {
		c.h.SignalDischargeShort()
	}

	if c.log.Active() {
		var flags uint8
		if state.Moving() {
			flags |= LogFlagMotion
		}
		c.log.Append(LogEntry{
			Flags:  flags,
			ROpen:  st.ROpen,
			RShort: st.RShort,
			RPulse: st.RPulse,
			NPulse: st.NPulse,
		})
	}

	c.pollCnt.Add(1)

	if c.tel != nil {
		c.tel.EmitSample(types.SampleValue{
			NPulse: st.NPulse,
			RPulse: st.RPulse,
			RShort: st.RShort,
			ROpen:  st.ROpen,
			Motion: state.Moving(),
		})
	}
}

// Counters returns the realtime-tick and successful-poll counts.
func (c *Controller) Counters() (ticks, polls uint32) {
	return c.tickCnt.Load(), c.pollCnt.Load()
}
