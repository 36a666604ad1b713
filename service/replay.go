package service

import (
	"log"

	"vanta/domain/book"
	"vanta/domain/pricetree"
	"vanta/infra/journal"
	"vanta/infra/sequence"
)

// ReplayJournal rebuilds the engine and the display tree from the order
// journal. It MUST run before traffic is accepted, and it bypasses the
// outbox: staged trades from the previous run are already durable.
// Records at or below fromSeq are already covered by a snapshot and are
// skipped; truncation is whole-segment, so some may survive on disk.
func ReplayJournal(
	dir string,
	fromSeq uint64,
	engine *book.Engine,
	tree *pricetree.Tree,
	seqGen *sequence.Sequencer,
) error {
	lastSeq, err := journal.Replay(dir, func(rec *journal.Record) error {
		if rec.Type != journal.RecordPlace {
			return nil
		}
		if rec.Seq <= fromSeq {
			return nil
		}

		o, err := parsePlacePayload(rec.Data, rec.Seq, rec.Time)
		if err != nil {
			return err
		}

		if _, err := engine.Submit(o); err != nil {
			return err
		}
		return tree.Insert(o)
	})
	if err != nil {
		return err
	}

	// Resume sequencing after replay.
	if lastSeq > seqGen.Current() {
		seqGen.Reset(lastSeq)
	}

	log.Printf("[service] journal replay complete (last seq = %d)", lastSeq)
	return nil
}
