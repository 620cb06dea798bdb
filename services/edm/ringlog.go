package edm

// LogCapacity is the fixed size of the diagnostic ring: about ten seconds of
// history at the 1 ms sampling rate.
const LogCapacity = 10000

// LogEntry is one compact status record (5 bytes, stored by value).
type LogEntry struct {
	Flags  uint8
	ROpen  uint8
	RShort uint8
	RPulse uint8
	NPulse uint8
}

// LogEntry flag bits.
const (
	LogFlagMotion uint8 = 1 << 0 // motion was executing at sample time
)

// ringLog is a bounded circular container: write cursor, valid count, FIFO
// eviction at capacity. Touched only from the cooperative context, so it
// needs no synchronization. Append and Do are the only mutator/accessor.
type ringLog struct {
	entries [LogCapacity]LogEntry
	write   int // next slot to overwrite
	valid   int // invariant: valid <= LogCapacity
	active  bool
}

// SetActive starts or stops a logging session. Turning logging on discards
// prior history so every session starts from a consistent empty state;
// turning it off keeps entries readable.
func (l *ringLog) SetActive(on bool) {
	if on {
		l.write = 0
		l.valid = 0
	}
	l.active = on
}

func (l *ringLog) Active() bool { return l.active }

// Len returns the number of valid entries.
func (l *ringLog) Len() int { return l.valid }

// Append records one entry, evicting the oldest once full. No-op unless a
// session is active.
func (l *ringLog) Append(e LogEntry) {
	if !l.active {
		return
	}
	l.entries[l.write] = e
	l.write++
	if l.write == LogCapacity {
		l.write = 0
	}
	if l.valid < LogCapacity {
		l.valid++
	}
}

// Do iterates entries oldest to newest. Refused while a session is active,
// so readers always see a consistent snapshot.
func (l *ringLog) Do(fn func(LogEntry)) bool {
	if l.active {
		return false
	}
	start := l.write - l.valid
	if start < 0 {
		start += LogCapacity
	}
	for i := 0; i < l.valid; i++ {
		idx := start + i
		if idx >= LogCapacity {
			idx -= LogCapacity
		}
		fn(l.entries[idx])
	}
	return true
}
