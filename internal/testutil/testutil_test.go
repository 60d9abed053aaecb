package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/arbor/internal/host"
)

func TestDeterministicClockSteps(t *testing.T) {
	clock := NewDeterministicClock(2 * time.Millisecond)

	assert.Equal(t, Epoch, clock.Now())
	assert.Equal(t, Epoch.Add(2*time.Millisecond), clock.Now())

	clock.Advance(time.Second)
	assert.Equal(t, time.Second+4*time.Millisecond, clock.Elapsed())

	clock.Reset()
	assert.Equal(t, Epoch, clock.Now())
}

func TestDeterministicClockDrivesWallClock(t *testing.T) {
	clock := NewDeterministicClock(2 * time.Millisecond)
	d := host.WallClock{Now: clock.Now}.Slice(5 * time.Millisecond)

	assert.Equal(t, 3*time.Millisecond, d.TimeRemaining())
	assert.Equal(t, 1*time.Millisecond, d.TimeRemaining())
	assert.Equal(t, time.Duration(0), d.TimeRemaining())
}

func TestUnitScheduler(t *testing.T) {
	s := NewUnitScheduler(2)

	d := s.Slice(time.Millisecond)
	assert.Positive(t, d.TimeRemaining())
	assert.Zero(t, d.TimeRemaining())

	d = s.Slice(time.Millisecond)
	assert.Positive(t, d.TimeRemaining())
	assert.Equal(t, 2, s.Slices())
}

func TestUnitSchedulerUnlimited(t *testing.T) {
	d := NewUnitScheduler(0).Slice(0)
	for i := 0; i < 100; i++ {
		assert.Positive(t, d.TimeRemaining())
	}
}

func TestFixedSessionGenerator(t *testing.T) {
	gen := NewFixedSessionGenerator("session-123")
	assert.Equal(t, "session-123", gen.Generate())
	assert.Equal(t, "session-123", gen.Generate())

	assert.Equal(t, "test-session-default", NewFixedSessionGenerator("").Generate())
}

func TestFixedSessionGeneratorThreadSafe(t *testing.T) {
	gen := NewFixedSessionGenerator("thread-safe-token")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "thread-safe-token", gen.Generate())
			}
		}()
	}
	wg.Wait()
}
