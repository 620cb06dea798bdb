package pulser

import (
	"errors"
	"testing"

	"tinygo.org/x/drivers"
)

// Compile-time check.
var _ drivers.I2C = (*fakeBus)(nil)

// fakeBus is a scripted register file behind a drivers.I2C front.
type fakeBus struct {
	regs     [0x20]byte
	failNext bool
	writes   []byte // register addresses in write order
	tx       int
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	f.tx++
	if f.failNext {
		f.failNext = false
		return errors.New("bus: transfer aborted")
	}
	if addr != AddressDefault {
		return errors.New("bus: no ack")
	}
	switch {
	case len(w) == 2 && len(r) == 0: // register write
		f.regs[w[0]] = w[1]
		f.writes = append(f.writes, w[0])
		return nil
	case len(w) == 1 && len(r) >= 1: // register / block read
		copy(r, f.regs[w[0]:int(w[0])+len(r)])
		return nil
	}
	return errors.New("bus: unsupported transfer shape")
}

func TestReadWriteReg(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus, 0)

	if err := d.WriteReg(RegMaxDuty, 25); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := d.ReadReg(RegMaxDuty)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != 25 {
		t.Fatalf("readback = %d, want 25", got)
	}
}

func TestWrongAddressFails(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus, 0x42)

	if err := d.WriteReg(RegMaxDuty, 1); err == nil {
		t.Fatal("expected no-ack error for wrong address")
	}
}

func TestSemanticAccessors(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus, 0)

	if err := d.SetPulseCurrent(10); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPulseDuration(50); err != nil {
		t.Fatal(err)
	}
	if err := d.SetMaxDuty(25); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPolarity(PolarityToolNegative); err != nil {
		t.Fatal(err)
	}

	if bus.regs[RegPulseCurrent] != 10 || bus.regs[RegPulseDuration] != 50 ||
		bus.regs[RegMaxDuty] != 25 || bus.regs[RegPolarity] != byte(PolarityToolNegative) {
		t.Fatalf("register file mismatch: %v", bus.regs[:8])
	}
}

func TestTemperature(t *testing.T) {
	bus := &fakeBus{}
	bus.regs[RegTemperature] = 31
	d := New(bus, 0)

	temp, err := d.Temperature()
	if err != nil {
		t.Fatal(err)
	}
	if temp != 31 {
		t.Fatalf("temperature = %d, want 31", temp)
	}
}

func TestReadStatusSingleTransfer(t *testing.T) {
	bus := &fakeBus{}
	bus.regs[RegNPulse] = 7
	bus.regs[RegNPulse+statusOfsRPulse] = 120
	bus.regs[RegNPulse+statusOfsRShort] = 3
	bus.regs[RegNPulse+statusOfsROpen] = 200
	d := New(bus, 0)

	before := bus.tx
	st, err := d.ReadStatus()
	if err != nil {
		t.Fatal(err)
	}
	if bus.tx-before != 1 {
		t.Fatalf("status read used %d transfers, want 1", bus.tx-before)
	}
	if st.NPulse != 7 || st.RPulse != 120 || st.RShort != 3 || st.ROpen != 200 {
		t.Fatalf("parsed status mismatch: %+v", st)
	}
	if !st.CurrentFlowing() {
		t.Fatal("expected current flowing with r_pulse > 0")
	}
}

func TestCurrentFlowing(t *testing.T) {
	cases := []struct {
		st   Status
		want bool
	}{
		{Status{RPulse: 0, RShort: 0}, false},
		{Status{RPulse: 1, RShort: 0}, true},
		{Status{RPulse: 0, RShort: 1}, true},
		{Status{ROpen: 255}, false},
	}
	for _, c := range cases {
		if got := c.st.CurrentFlowing(); got != c.want {
			t.Errorf("CurrentFlowing(%+v) = %v, want %v", c.st, got, c.want)
		}
	}
}

func TestTransferFailurePropagates(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus, 0)

	bus.failNext = true
	if _, err := d.ReadStatus(); err == nil {
		t.Fatal("expected error from failed transfer")
	}

	bus.failNext = true
	if err := d.SetPolarity(PolarityOff); err == nil {
		t.Fatal("expected error from failed transfer")
	}
}
