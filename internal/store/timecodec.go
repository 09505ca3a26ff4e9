package store

import "time"

const (
	// AppleEpochUnix is 2001-01-01T00:00:00Z in Unix seconds.
	AppleEpochUnix int64 = 978307200

	// TicksPerSecond is the scale of the store's date column (nanoseconds).
	TicksPerSecond int64 = 1_000_000_000
)

// DecodeTimestamp converts a store date value to a UTC time.
// Values beyond the int64 Unix-seconds range wrap; real stores never get near it.
func DecodeTimestamp(ticks int64) time.Time {
	sec := ticks / TicksPerSecond
	rem := ticks % TicksPerSecond
	return time.Unix(AppleEpochUnix+sec, rem*(int64(time.Second)/TicksPerSecond)).UTC()
}
