package edm

import (
	"testing"

	"edmcode-go/drivers/pulser"
	"edmcode-go/errcode"
	"edmcode-go/services/host"
)

var _ host.Probe = probeAdapter{}

func TestProbeStateTracksCurrentFlag(t *testing.T) {
	c, _, _, _ := newFixture(t)
	p := probeAdapter{c}

	if st := p.State(); st.Triggered || !st.Connected {
		t.Fatalf("initial state = %+v", st)
	}
	c.hasCurrent.Store(true)
	if st := p.State(); !st.Triggered {
		t.Error("probe not triggered while current flows")
	}
}

func TestProbeConnectedEvenAfterFailedInit(t *testing.T) {
	fb := newFakeBus()
	fb.failAll = true
	c := New(pulser.New(fb, 0), &fakeGate{}, &fakeHost{})
	c.Init()

	if st := (probeAdapter{c}).State(); !st.Connected {
		t.Error("probe must stay connected so probing fails safe, not silent")
	}
}

func TestProbeDoneForcesStop(t *testing.T) {
	c, fb, gate, _ := newFixture(t)
	if got := c.Start(pulser.PolarityToolNegative, 500, 1, 25); got != errcode.OK {
		t.Fatal(got)
	}

	c.onProbeDone()
	if gate.level {
		t.Error("gate still asserted after probe completion")
	}
	if fb.regs[pulser.RegPolarity] != byte(pulser.PolarityOff) {
		t.Errorf("polarity reg = %d, want off", fb.regs[pulser.RegPolarity])
	}
	if en, _ := c.Energized(); en {
		t.Error("controller still energized")
	}
}

func TestProbeDoneWhileIdleIsHarmless(t *testing.T) {
	c, _, _, h := newFixture(t)
	c.onProbeDone()
	if len(h.alarms) != 0 {
		t.Errorf("alarms = %v", h.alarms)
	}
}
