// Package pulser is the register-level protocol driver for the EDM discharge
// pulser. Every operation performs exactly one synchronous bus transfer and
// reports failure as an error; retry and escalation policy belong to callers.
package pulser

import (
	"tinygo.org/x/drivers"
)

// Device talks to one pulser on a shared two-wire bus.
type Device struct {
	i2c  drivers.I2C
	addr uint16

	// Scratch buffers so register traffic never allocates.
	w [2]byte
	r [StatusLen]byte
}

// New binds a pulser at addr (AddressDefault when zero) to the given bus.
func New(i2c drivers.I2C, addr uint16) *Device {
	if addr == 0 {
		addr = AddressDefault
	}
	return &Device{i2c: i2c, addr: addr}
}

// Addr returns the device's bus address.
func (d *Device) Addr() uint16 { return d.addr }

// ReadReg reads a single byte register. One transfer, no retries.
func (d *Device) ReadReg(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

// WriteReg writes a single byte register. One transfer, no retries.
func (d *Device) WriteReg(reg, val byte) error {
	d.w[0] = reg
	d.w[1] = val
	return d.i2c.Tx(d.addr, d.w[:2], nil)
}

// readBlock reads count bytes starting at reg into the scratch buffer.
// The transfer is atomic at the transport layer only.
func (d *Device) readBlock(reg byte, count int) error {
	d.w[0] = reg
	return d.i2c.Tx(d.addr, d.w[:1], d.r[:count])
}

// ---- Semantic register accessors ----

// SetPolarity selects the discharge polarity.
func (d *Device) SetPolarity(p Polarity) error {
	return d.WriteReg(RegPolarity, byte(p))
}

// SetPulseCurrent programs the pulse current in deciamps.
func (d *Device) SetPulseCurrent(deciAmps byte) error {
	return d.WriteReg(RegPulseCurrent, deciAmps)
}

// SetPulseDuration programs the pulse duration in 10 µs units.
func (d *Device) SetPulseDuration(tensOfMicros byte) error {
	return d.WriteReg(RegPulseDuration, tensOfMicros)
}

// SetMaxDuty programs the maximum duty cycle in percent (1-95).
func (d *Device) SetMaxDuty(percent byte) error {
	return d.WriteReg(RegMaxDuty, percent)
}

// Temperature reads the device temperature register (°C).
func (d *Device) Temperature() (int, error) {
	v, err := d.ReadReg(RegTemperature)
	return int(v), err
}
