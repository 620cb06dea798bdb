package edm

import (
	"edmcode-go/drivers/pulser"
	"edmcode-go/errcode"
	"edmcode-go/types"
	"edmcode-go/x/mathx"
)

// User command codes owned by this controller.
const (
	MCodeStatus   uint16 = 550 // [P1: dump log]
	MCodeLogging  uint16 = 551 // P<0|1>
	MCodeStartNeg uint16 = 552 // [P dur us] [Q current A] [R duty %]
	MCodeStartPos uint16 = 553 // as M552
	MCodeStop     uint16 = 554 // no words
)

// Owns implements host.MCodeHandler.
func (c *Controller) Owns(code uint16) bool {
	return code >= MCodeStatus && code <= MCodeStop
}

// Validate range-checks every provided word before any state mutation or
// bus activity.
func (c *Controller) Validate(b *types.Block) errcode.Code {
	switch b.Code {
	case MCodeStatus:
		if b.HasUnknownWords(types.WordP) {
			return errcode.UnusedWords
		}
		if v, ok := b.Word(types.WordP); ok && v != 0 && v != 1 {
			return errcode.ValueOutOfRange
		}
		return errcode.OK

	case MCodeLogging:
		if b.HasUnknownWords(types.WordP) {
			return errcode.UnusedWords
		}
		v, ok := b.Word(types.WordP)
		if !ok {
			return errcode.WordMissing
		}
		if v != 0 && v != 1 {
			return errcode.ValueOutOfRange
		}
		return errcode.OK

	case MCodeStartNeg, MCodeStartPos:
		if b.HasUnknownWords(types.WordP, types.WordQ, types.WordR) {
			return errcode.UnusedWords
		}
		if v, ok := b.Word(types.WordP); ok && !mathx.Between(v, minDurationUS, maxDurationUS) {
			return errcode.ValueOutOfRange
		}
		if v, ok := b.Word(types.WordQ); ok && !mathx.Between(v, 0, maxCurrentA) {
			return errcode.ValueOutOfRange
		}
		if v, ok := b.Word(types.WordR); ok && !mathx.Between(v, minDutyPct, maxDutyPct) {
			return errcode.ValueOutOfRange
		}
		if c.initStatus.Load() != InitOK {
			return errcode.SelfTestFailed
		}
		return errcode.OK

	case MCodeStop:
		if len(b.Words) != 0 {
			return errcode.UnusedWords
		}
		if c.initStatus.Load() != InitOK {
			return errcode.SelfTestFailed
		}
		return errcode.OK
	}
	return errcode.Unhandled
}

// Execute implements host.MCodeHandler. Blocks reaching here have passed
// Validate.
func (c *Controller) Execute(state types.MachineState, b *types.Block) errcode.Code {
	switch b.Code {
	case MCodeStatus:
		return c.execStatus(b)

	case MCodeLogging:
		v, _ := b.Word(types.WordP)
		c.log.SetActive(v != 0)
		return errcode.OK

	case MCodeStartNeg:
		return c.execStart(pulser.PolarityToolNegative, b)
	case MCodeStartPos:
		return c.execStart(pulser.PolarityToolPositive, b)

	case MCodeStop:
		return c.Stop()
	}
	return errcode.Unhandled
}

func (c *Controller) execStart(p pulser.Polarity, b *types.Block) errcode.Code {
	dur := float32(defaultDurationUS)
	if v, ok := b.Word(types.WordP); ok {
		dur = v
	}
	cur := float32(defaultCurrentA)
	if v, ok := b.Word(types.WordQ); ok {
		cur = v
	}
	duty := float32(defaultDutyPct)
	if v, ok := b.Word(types.WordR); ok {
		duty = v
	}
	return c.Start(p, uint16(dur), cur, uint8(duty))
}

func (c *Controller) execStatus(b *types.Block) errcode.Code {
	temp, err := c.dev.Temperature()
	c.h.WriteLine(c.statusLine(temp, err == nil))

	// Log dump is silently omitted while a logging session is active: the
	// ring is only consistent once stopped.
	if v, ok := b.Word(types.WordP); ok && v == 1 {
		c.writeLogDump()
	}
	return errcode.OK
}
