package pulser

// Status is one sample of the discharge-status block.
//
// NPulse is the pulse count since the previous read. The resistance-domain
// readings are device-native 0-255: RPulse while pulsing, RShort during a
// short, ROpen with an open gap.
type Status struct {
	NPulse uint8
	RPulse uint8
	RShort uint8
	ROpen  uint8
}

// CurrentFlowing reports whether discharge current was detected in this
// sample.
func (s Status) CurrentFlowing() bool {
	return s.RPulse > 0 || s.RShort > 0
}

// ReadStatus reads the full status block in a single transfer and parses it.
// On error the returned Status is the zero value and must be discarded.
func (d *Device) ReadStatus() (Status, error) {
	if err := d.readBlock(RegNPulse, StatusLen); err != nil {
		return Status{}, err
	}
	return Status{
		NPulse: d.r[statusOfsNPulse],
		RPulse: d.r[statusOfsRPulse],
		RShort: d.r[statusOfsRShort],
		ROpen:  d.r[statusOfsROpen],
	}, nil
}
