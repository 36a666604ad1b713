package service

import (
	"context"
	"log"
	"time"

	"vanta/snapshot"
)

// StartSnapshotJob periodically persists the resting book, then
// truncates the journal and garbage-collects acknowledged outbox
// entries the snapshot now covers.
func (s *MarketService) StartSnapshotJob(
	ctx context.Context,
	dir string,
	interval time.Duration,
) {
	w := &snapshot.Writer{Dir: dir}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := s.writeSnapshot(w); err != nil {
					log.Printf("[snapshot] write failed: %v", err)
				}
			}
		}
	}()
}

func (s *MarketService) writeSnapshot(w *snapshot.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seqGen.Current()
	tradeSeq := s.engine.TradeSeq()

	if err := w.Write(seq, s.engine); err != nil {
		return err
	}

	if s.journal != nil {
		_ = s.journal.TruncateBefore(seq)
	}
	if s.outbox != nil {
		_ = s.outbox.TruncateAckedUpTo(tradeSeq)
	}
	return nil
}
