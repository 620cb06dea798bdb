// Package rtubus adapts a Modbus RTU register gateway to the same
// synchronous read/write-register primitive the pulser driver expects
// (drivers.I2C.Tx). Bench rigs hang the pulser prototype off an RS-485
// adapter; on the machine itself the real two-wire bus is used instead.
//
// The gateway maps each device register to one holding register; only the
// low byte is significant. Each Tx is exactly one Modbus transaction —
// retry policy stays with the caller, matching the on-machine transport.
package rtubus

import (
	"errors"
	"time"

	"github.com/goburrow/modbus"
	"tinygo.org/x/drivers"
)

// Config describes the serial link to the RTU gateway.
type Config struct {
	Device   string        // e.g. "/dev/ttyUSB0"
	BaudRate int           // 0 -> 19200
	SlaveID  byte          // Modbus unit id of the gateway
	Timeout  time.Duration // 0 -> 500ms
	BusAddr  uint16        // two-wire address the gateway fronts (0 -> accept any)
}

// Bus implements drivers.I2C over a modbus.Client.
type Bus struct {
	client modbus.Client
	addr   uint16
	close  func() error
}

var _ drivers.I2C = (*Bus)(nil)

var (
	errAddrMismatch = errors.New("rtubus: transfer addressed to a device the gateway does not front")
	errShape        = errors.New("rtubus: unsupported transfer shape")
	errShortReply   = errors.New("rtubus: short reply from gateway")
)

// Open connects to the gateway over a serial port.
func Open(cfg Config) (*Bus, error) {
	if cfg.Device == "" {
		return nil, errors.New("rtubus: serial device required")
	}
	h := modbus.NewRTUClientHandler(cfg.Device)
	if cfg.BaudRate > 0 {
		h.BaudRate = cfg.BaudRate
	} else {
		h.BaudRate = 19200
	}
	h.SlaveId = cfg.SlaveID
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	} else {
		h.Timeout = 500 * time.Millisecond
	}
	if err := h.Connect(); err != nil {
		return nil, err
	}
	return &Bus{
		client: modbus.NewClient(h),
		addr:   cfg.BusAddr,
		close:  h.Close,
	}, nil
}

// NewWithClient wraps an existing client; used by tests and custom transports.
func NewWithClient(c modbus.Client, busAddr uint16) *Bus {
	return &Bus{client: c, addr: busAddr}
}

// Close releases the serial port.
func (b *Bus) Close() error {
	if b.close != nil {
		return b.close()
	}
	return nil
}

// Tx performs one register read or write through the gateway.
//
//	w=[reg], r=buf   -> ReadHoldingRegisters(reg, len(buf)), low bytes copied out
//	w=[reg, val]     -> WriteSingleRegister(reg, val)
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if b.addr != 0 && addr != b.addr {
		return errAddrMismatch
	}
	switch {
	case len(w) == 1 && len(r) >= 1:
		raw, err := b.client.ReadHoldingRegisters(uint16(w[0]), uint16(len(r)))
		if err != nil {
			return err
		}
		if len(raw) < 2*len(r) {
			return errShortReply
		}
		for i := range r {
			r[i] = raw[2*i+1] // big-endian registers, value in the low byte
		}
		return nil
	case len(w) == 2 && len(r) == 0:
		_, err := b.client.WriteSingleRegister(uint16(w[0]), uint16(w[1]))
		return err
	}
	return errShape
}
