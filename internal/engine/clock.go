package engine

import "sync/atomic"

// Sequencer hands out commit generation numbers.
//
// Generations are logical and strictly increasing; the first commit of a
// fresh engine is generation 1. Ordering never depends on wall-clock time.
//
// Thread-safety: Sequencer is safe for concurrent use, though only the
// driver goroutine calls Next.
type Sequencer struct {
	seq atomic.Int64
}

// NewSequencer creates a sequencer starting at 0.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// NewSequencerAt creates a sequencer whose next value is start+1.
// Used to continue a journaled session.
func NewSequencerAt(start int64) *Sequencer {
	s := &Sequencer{}
	s.seq.Store(start)
	return s
}

// Next returns the next generation number.
func (s *Sequencer) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the last generation handed out.
func (s *Sequencer) Current() int64 {
	return s.seq.Load()
}
