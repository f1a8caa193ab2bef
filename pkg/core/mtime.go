package core

import (
	"encoding/binary"
	"time"
)

// Mtime is a modification time with nanosecond precision, stored as a Unix
// timestamp rather than a wall-clock structure so that two mtimes observed
// on different platforms (or serialized and reloaded) compare by value
// (§3.1).
type Mtime struct {
	Seconds     int64
	Nanoseconds uint32
}

// NewMtime constructs an Mtime from its components.
func NewMtime(seconds int64, nanoseconds uint32) Mtime {
	return Mtime{Seconds: seconds, Nanoseconds: nanoseconds}
}

// Bytes renders the mtime as its canonical 12-byte big-endian encoding
// (8 bytes of seconds, 4 bytes of nanoseconds), used as a building block of
// the tree-hash algorithm (§3.3).
func (m Mtime) Bytes() []byte {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint64(buf[0:8], uint64(m.Seconds))
	binary.BigEndian.PutUint32(buf[8:12], m.Nanoseconds)
	return buf
}

// String renders the mtime as a UTC timestamp, primarily for diagnostics.
func (m Mtime) String() string {
	return time.Unix(m.Seconds, int64(m.Nanoseconds)).UTC().Format("2006-01-02 15:04:05.000000000")
}
