// Package sequence generates the strictly monotonic sequence ids that
// order the journal and key the outbox.
package sequence

import "sync/atomic"

// Sequencer is deterministic and replay-safe.
type Sequencer struct {
	next atomic.Uint64
}

// New creates a sequencer. Fresh start uses 0; after journal replay the
// caller resumes from the last replayed sequence.
func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence id.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}

// Reset sets the sequencer to a specific value. Used only after replay.
func (s *Sequencer) Reset(v uint64) {
	s.next.Store(v)
}
