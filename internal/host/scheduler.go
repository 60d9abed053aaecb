package host

import "time"

// Deadline reports how much of the current time slice is left.
type Deadline interface {
	TimeRemaining() time.Duration
}

// Scheduler hands the work loop one time slice per tick.
type Scheduler interface {
	Slice(budget time.Duration) Deadline
}

// WallClock slices real time. A zero WallClock uses time.Now.
type WallClock struct {
	Now func() time.Time
}

// Slice starts a slice of the given budget.
func (w WallClock) Slice(budget time.Duration) Deadline {
	now := w.Now
	if now == nil {
		now = time.Now
	}
	return wallDeadline{end: now().Add(budget), now: now}
}

type wallDeadline struct {
	end time.Time
	now func() time.Time
}

func (d wallDeadline) TimeRemaining() time.Duration {
	if r := d.end.Sub(d.now()); r > 0 {
		return r
	}
	return 0
}
