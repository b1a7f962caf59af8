package wire

import "time"

// NowMicros returns the current time as microseconds since the Unix
// epoch, the timestamp unit every message Header uses.
func NowMicros() uint64 {
	return uint64(time.Now().UnixMicro())
}
