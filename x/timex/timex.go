// Package timex holds the blocking delay primitives used before any
// scheduler-driven timing is available.
package timex

import "time"

// Sleeper blocks the caller for d.
type Sleeper interface {
	Sleep(d time.Duration)
}

// System sleeps on the runtime clock.
type System struct{}

func (System) Sleep(d time.Duration) { time.Sleep(d) }

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Sliced waits for total in steps of slice, calling poll (if non-nil) before
// every step. A remainder shorter than one slice is dropped, so the wait is
// never longer than requested. slice <= 0 sleeps total in one go.
func Sliced(s Sleeper, total, slice time.Duration, poll func()) {
	if slice <= 0 {
		if poll != nil {
			poll()
		}
		if total > 0 {
			s.Sleep(total)
		}
		return
	}
	for {
		if poll != nil {
			poll()
		}
		if total < slice {
			return
		}
		s.Sleep(slice)
		total -= slice
	}
}
