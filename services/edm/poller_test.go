package edm

import (
	"testing"

	"edmcode-go/bus"
	"edmcode-go/drivers/pulser"
	"edmcode-go/types"
)

func TestPollRateLimiting(t *testing.T) {
	c, fb, _, h := newFixture(t)
	baseline := fb.reads // Init already read the temperature register

	h.micros = 1000
	c.onRealtime(types.StateIdle)
	if fb.reads != baseline+1 {
		t.Fatalf("reads = %d, want %d", fb.reads, baseline+1)
	}

	// Second tick inside the interval: no bus access, no poll counted.
	h.micros = 1999
	c.onRealtime(types.StateIdle)
	if fb.reads != baseline+1 {
		t.Errorf("off-interval tick touched the bus (reads = %d)", fb.reads)
	}
	ticks, polls := c.Counters()
	if ticks != 2 || polls != 1 {
		t.Errorf("counters = (%d, %d), want (2, 1)", ticks, polls)
	}

	h.micros = 2000
	c.onRealtime(types.StateIdle)
	if fb.reads != baseline+2 {
		t.Errorf("interval elapsed but no sample taken (reads = %d)", fb.reads)
	}
	if _, polls = c.Counters(); polls != 2 {
		t.Errorf("polls = %d, want 2", polls)
	}
}

func TestPollUpdatesCurrentFlag(t *testing.T) {
	cases := []struct {
		rPulse, rShort byte
		want           bool
	}{
		{0, 0, false},
		{50, 0, true},
		{0, 50, true},
		{50, 50, true},
	}
	c, fb, _, h := newFixture(t)
	for i, tc := range cases {
		fb.setStatus(1, tc.rPulse, tc.rShort, 0)
		h.micros += pollIntervalUS
		c.onRealtime(types.StateIdle)
		if got := c.hasCurrent.Load(); got != tc.want {
			t.Errorf("case %d: hasCurrent = %v, want %v", i, got, tc.want)
		}
	}
}

func TestPollFailureSkipsSample(t *testing.T) {
	c, fb, _, h := newFixture(t)

	fb.setStatus(1, 50, 0, 0)
	h.micros = 1000
	c.onRealtime(types.StateIdle)
	if !c.hasCurrent.Load() {
		t.Fatal("setup: flag not set by first sample")
	}

	fb.setStatus(1, 0, 0, 0)
	fb.failAll = true
	h.micros = 2000
	c.onRealtime(types.StateIdle)
	if !c.hasCurrent.Load() {
		t.Error("failed transfer must leave the flag unchanged")
	}
	if _, polls := c.Counters(); polls != 1 {
		t.Errorf("polls = %d, want 1", polls)
	}
}

func TestShortSignalThreshold(t *testing.T) {
	c, fb, _, h := newFixture(t)

	fb.setStatus(1, 0, 127, 0)
	h.micros = 1000
	c.onRealtime(types.StateIdle)
	if h.shorts != 0 {
		t.Errorf("r_short at threshold signalled a retract (%d)", h.shorts)
	}

	fb.setStatus(1, 0, 128, 0)
	h.micros = 2000
	c.onRealtime(types.StateIdle)
	if h.shorts != 1 {
		t.Errorf("shorts = %d, want 1", h.shorts)
	}
}

func TestPollLogsDuringSession(t *testing.T) {
	c, fb, _, h := newFixture(t)
	c.log.SetActive(true)

	// Ten consecutive samples with alternating discharge activity.
	for i := 0; i < 10; i++ {
		var rPulse byte
		if i%2 == 1 {
			rPulse = 50
		}
		fb.setStatus(byte(i), rPulse, 0, 0)
		h.micros += pollIntervalUS
		c.onRealtime(types.StateCycle)
	}
	c.log.SetActive(false)

	if c.log.Len() != 10 {
		t.Fatalf("log length = %d, want 10", c.log.Len())
	}
	i := 0
	c.log.Do(func(e LogEntry) {
		wantPulse := byte(0)
		if i%2 == 1 {
			wantPulse = 50
		}
		if e.RPulse != wantPulse || e.NPulse != byte(i) {
			t.Errorf("entry %d = %+v", i, e)
		}
		if e.Flags&LogFlagMotion == 0 {
			t.Errorf("entry %d missing motion flag", i)
		}
		i++
	})
}

func TestPollEmitsTelemetrySample(t *testing.T) {
	c, fb, _, h := newFixture(t)
	b := bus.NewBus(16)
	sub := b.NewConnection("test").Subscribe(bus.T("edm", "sample"))
	c.SetTelemetry(NewTelemetry(b.NewConnection("edm")))

	fb.setStatus(3, 50, 10, 0)
	h.micros = 1000
	c.onRealtime(types.StateCycle)

	select {
	case msg := <-sub.Channel():
		s, ok := msg.Payload.(types.SampleValue)
		if !ok {
			t.Fatalf("payload type %T", msg.Payload)
		}
		if s.NPulse != 3 || s.RPulse != 50 || s.RShort != 10 || !s.Motion {
			t.Errorf("sample = %+v", s)
		}
	default:
		t.Fatal("no sample published")
	}
}

func TestInitEmitsRetainedInfo(t *testing.T) {
	fb := newFakeBus()
	b := bus.NewBus(16)
	c := New(pulser.New(fb, 0), &fakeGate{}, &fakeHost{})
	c.SetTelemetry(NewTelemetry(b.NewConnection("edm")))
	c.Init()

	// Late subscriber still sees the info message.
	sub := b.NewConnection("late").Subscribe(bus.T("edm", "info"))
	select {
	case msg := <-sub.Channel():
		info, ok := msg.Payload.(types.PulserInfo)
		if !ok {
			t.Fatalf("payload type %T", msg.Payload)
		}
		if info.Driver != "edm-pulser" || info.LogCapacity != LogCapacity {
			t.Errorf("info = %+v", info)
		}
	default:
		t.Fatal("info not retained for late subscriber")
	}
}
