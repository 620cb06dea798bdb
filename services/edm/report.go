package edm

import (
	"edmcode-go/x/conv"
)

const (
	// 20 entries per dump line keeps each line under the firmware's report
	// buffer width.
	logEntriesPerLine = 20

	lineBufCap = 96
)

// digitChar quantizes a 0-255 reading to one decimal digit. The scale is
// v*10/256 (255 reads back as 9); downstream tooling depends on exactly
// this mapping.
func digitChar(v uint8) byte {
	return '0' + byte(uint16(v)*10/256)
}

// statusLine renders the status response:
//
//	[EDM|stat=<n>,i2c=ok|fail[,temp=<n>],polls=<n>,log=<n>,F(step)=<n>Hz]
func (c *Controller) statusLine(temp int, i2cOK bool) string {
	var n [20]byte
	buf := append(c.lineBuf[:0], "[EDM|stat="...)
	buf = append(buf, conv.Utoa(n[:], uint64(c.initStatus.Load()))...)
	if i2cOK {
		buf = append(buf, ",i2c=ok,temp="...)
		buf = append(buf, conv.Itoa(n[:], int64(temp))...)
	} else {
		buf = append(buf, ",i2c=fail"...)
	}
	_, polls := c.Counters()
	buf = append(buf, ",polls="...)
	buf = append(buf, conv.Utoa(n[:], uint64(polls))...)
	buf = append(buf, ",log="...)
	buf = append(buf, conv.Utoa(n[:], uint64(c.log.Len()))...)
	buf = append(buf, ",F(step)="...)
	buf = append(buf, conv.Utoa(n[:], uint64(c.h.StepFrequency()))...)
	buf = append(buf, "Hz]"...)
	c.lineBuf = buf
	return string(buf)
}

// writeLogDump renders the diagnostic ring in 20-entry groups, one line per
// group:
//
//	[EDML|<pulse digit><short digit>,...,<M|->,<line pulse total>]
//
// M marks a line in which any entry sampled during active motion. Does
// nothing while a logging session is active.
func (c *Controller) writeLogDump() {
	var n [20]byte
	buf := c.lineBuf[:0]
	count := 0
	lineTotal := uint32(0)
	motion := false

	flush := func() {
		if count == 0 {
			return
		}
		if motion {
			buf = append(buf, 'M')
		} else {
			buf = append(buf, '-')
		}
		buf = append(buf, ',')
		buf = append(buf, conv.Utoa(n[:], uint64(lineTotal))...)
		buf = append(buf, ']')
		c.h.WriteLine(string(buf))
		buf = buf[:0]
		count = 0
		lineTotal = 0
		motion = false
	}

	c.log.Do(func(e LogEntry) {
		if count == 0 {
			buf = append(buf, "[EDML|"...)
		}
		buf = append(buf, digitChar(e.RPulse), digitChar(e.RShort), ',')
		lineTotal += uint32(e.NPulse)
		if e.Flags&LogFlagMotion != 0 {
			motion = true
		}
		count++
		if count == logEntriesPerLine {
			flush()
		}
	})
	flush()
	c.lineBuf = buf
}
