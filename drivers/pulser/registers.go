package pulser

// Bus address and register map of the discharge pulser. Fixed by the device;
// not configurable at runtime.
const (
	AddressDefault uint16 = 0x3B

	RegTemperature   byte = 0x03 // read-only, °C
	RegPulseCurrent  byte = 0x04 // deciamps, 0-255
	RegPulseDuration byte = 0x05 // 10 µs units
	RegMaxDuty       byte = 0x06 // percent, 1-95
	RegPolarity      byte = 0x07

	// Status block: one contiguous read of StatusLen bytes.
	RegNPulse byte = 0x10
	StatusLen      = 6

	// Offsets within the status block.
	statusOfsNPulse = 0
	statusOfsRPulse = 3
	statusOfsRShort = 4
	statusOfsROpen  = 5
)

// Polarity selects which electrode is negative during discharge.
type Polarity byte

const (
	PolarityOff          Polarity = 0x00
	PolarityToolNegative Polarity = 0x01
	PolarityToolPositive Polarity = 0x02
)

func (p Polarity) String() string {
	switch p {
	case PolarityOff:
		return "off"
	case PolarityToolNegative:
		return "tool-negative"
	case PolarityToolPositive:
		return "tool-positive"
	default:
		return "invalid"
	}
}
