package testutil

import (
	"sync"
	"time"

	"github.com/roach88/arbor/internal/host"
)

// UnitScheduler is a host.Scheduler whose slices last a fixed number of
// units of work regardless of time. The work loop checks the deadline once
// per unit, so each slice performs exactly Units units before yielding.
// Units <= 0 never yields.
type UnitScheduler struct {
	Units int

	mu     sync.Mutex
	slices int
}

// NewUnitScheduler creates a scheduler granting n units per slice.
func NewUnitScheduler(n int) *UnitScheduler {
	return &UnitScheduler{Units: n}
}

// Slice implements host.Scheduler. The budget is ignored.
func (s *UnitScheduler) Slice(time.Duration) host.Deadline {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slices++
	return &unitDeadline{left: s.Units, unlimited: s.Units <= 0}
}

// Slices returns the number of slices handed out.
func (s *UnitScheduler) Slices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slices
}

type unitDeadline struct {
	left      int
	unlimited bool
}

// TimeRemaining consumes one unit.
func (d *unitDeadline) TimeRemaining() time.Duration {
	if d.unlimited {
		return time.Hour
	}
	d.left--
	if d.left > 0 {
		return time.Hour
	}
	return 0
}
