package conv

// Itoa is Utoa with a sign. buf must leave room for the '-'.
func Itoa(buf []byte, n int64) []byte {
	if n >= 0 {
		return Utoa(buf, uint64(n))
	}
	s := Utoa(buf, uint64(-n))
	if len(s) == len(buf) {
		return s // no room for the sign, return the magnitude
	}
	i := len(buf) - len(s) - 1
	buf[i] = '-'
	return buf[i:]
}
