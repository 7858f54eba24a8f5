package element

import "time"

// Clock supplies the current time to the codec so that tests can
// inject a deterministic value instead of reading the wall clock.
type Clock interface {
	NowUnixMillis() int64
}

// SystemClock is the default Clock, backed by time.Now.
type SystemClock struct{}

func (SystemClock) NowUnixMillis() int64 {
	return time.Now().UnixMilli()
}

// FixedClock is a Clock that always returns the same instant, for
// deterministic tests.
type FixedClock int64

func (f FixedClock) NowUnixMillis() int64 {
	return int64(f)
}
