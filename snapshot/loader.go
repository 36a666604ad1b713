package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"vanta/domain/book"
)

// Load replays a snapshot into an empty engine and returns the covered
// sequence. A missing snapshot file is not an error.
func Load(dir string, engine *book.Engine) (uint64, error) {
	f, err := os.Open(filepath.Join(dir, "snapshot.bin"))
	if err != nil {
		return 0, nil // snapshot optional
	}
	defer f.Close()

	var s Snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return 0, err
	}

	// Snapshotted orders were resting simultaneously, so resubmitting
	// them cannot cross.
	for _, e := range s.Orders {
		o := book.Order{
			ID:        e.ID,
			Side:      book.Side(e.Side),
			Price:     e.Price,
			Qty:       e.Qty,
			Seq:       e.Seq,
			Timestamp: time.Unix(0, e.Time),
		}
		if _, err := engine.Submit(o); err != nil {
			return 0, err
		}
	}

	engine.ResetTradeSeq(s.TradeSeq)

	return s.Seq, nil
}
