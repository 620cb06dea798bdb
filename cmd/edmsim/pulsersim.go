// cmd/edmsim/pulsersim.go
package main

import (
	"errors"
	"fmt"
	"time"

	"tinygo.org/x/drivers"

	"edmcode-go/drivers/pulser"
	"edmcode-go/services/host"
	"edmcode-go/types"
)

var (
	_ drivers.I2C = (*simPulser)(nil)
	_ host.Host   = (*simHost)(nil)
)

// simPulser is an in-memory pulser register file with simple gap dynamics:
// while the gate is high and a polarity is selected, each status read
// synthesizes discharge activity; otherwise the block reads all zero.
type simPulser struct {
	cfg  *SimConfig
	regs [0x20]byte

	gateHigh bool
	reads    int // status reads served
	rng      uint32
}

func newSimPulser(cfg *SimConfig) *simPulser {
	s := &simPulser{cfg: cfg, rng: 0x2545f491}
	s.regs[pulser.RegTemperature] = cfg.TemperatureC
	return s
}

// next is a xorshift step; keeps runs reproducible without a seed flag.
func (s *simPulser) next() uint32 {
	s.rng ^= s.rng << 13
	s.rng ^= s.rng >> 17
	s.rng ^= s.rng << 5
	return s.rng
}

func (s *simPulser) energized() bool {
	return s.gateHigh && s.regs[pulser.RegPolarity] != byte(pulser.PolarityOff)
}

// synthesize refreshes the status block before it is read out.
func (s *simPulser) synthesize() {
	s.reads++
	if !s.energized() {
		s.regs[pulser.RegNPulse] = 0
		s.regs[pulser.RegNPulse+3] = 0
		s.regs[pulser.RegNPulse+4] = 0
		s.regs[pulser.RegNPulse+5] = 0
		return
	}

	d := s.cfg.Discharge
	s.regs[pulser.RegNPulse] = d.PulsesPerSample

	// Pulse ratio wanders around mid-scale.
	s.regs[pulser.RegNPulse+3] = byte(96 + s.next()%64)

	if d.ShortEvery > 0 && s.reads%d.ShortEvery == 0 {
		s.regs[pulser.RegNPulse+4] = byte(200 + s.next()%56)
	} else {
		s.regs[pulser.RegNPulse+4] = byte(s.next() % 32)
	}
	s.regs[pulser.RegNPulse+5] = byte(s.next() % 48)
}

func (s *simPulser) Tx(addr uint16, w, r []byte) error {
	if s.cfg.Fault.BusDead {
		return errors.New("sim: bus dead")
	}
	if s.cfg.Fault.FailAfterReads > 0 && s.reads >= s.cfg.Fault.FailAfterReads {
		return errors.New("sim: injected transfer failure")
	}
	if s.cfg.Fault.Absent {
		// Nothing drives the bus: reads float high, writes vanish.
		for i := range r {
			r[i] = 0xFF
		}
		return nil
	}

	switch {
	case len(w) == 2 && len(r) == 0:
		s.regs[w[0]] = w[1]
		return nil
	case len(w) == 1 && len(r) >= 1:
		if w[0] == pulser.RegNPulse {
			s.synthesize()
		}
		copy(r, s.regs[w[0]:int(w[0])+len(r)])
		return nil
	}
	return errors.New("sim: unsupported transfer shape")
}

// simGate mirrors the discharge-enable output onto the register model.
type simGate struct {
	dev *simPulser
}

func (g *simGate) Set(high bool) {
	if high != g.dev.gateHigh {
		fmt.Printf("<gate %v>\n", high)
	}
	g.dev.gateHigh = high
}

// simHost stands in for the motion firmware's services.
type simHost struct {
	start  time.Time
	stepHz uint32
}

func (h *simHost) Micros() uint64        { return uint64(time.Since(h.start).Microseconds()) }
func (h *simHost) StepFrequency() uint32 { return h.stepHz }

func (h *simHost) RaiseAlarm(c types.AlarmCode) {
	fmt.Printf("ALARM:%d\n", c)
}

func (h *simHost) SignalDischargeShort() {
	fmt.Println("<retract: discharge short>")
}

func (h *simHost) WriteLine(line string) {
	fmt.Println(line)
}
