package conv

// Utoa writes the base-10 representation of n into the tail of buf and
// returns the used slice. buf must be long enough for the value (20 bytes
// covers uint64). No allocations; no strconv dependency, so report rendering
// stays heap-free on the device.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	if i == 0 {
		return buf
	}
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return buf[i:]
}
