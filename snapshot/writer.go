package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"vanta/domain/book"
)

type Writer struct {
	Dir string
}

// Write walks both sides best-to-worst and persists the remaining
// quantity of every resting order.
func (w *Writer) Write(seq uint64, engine *book.Engine) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(w.Dir, "snapshot.bin")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s := Snapshot{
		Seq:      seq,
		TradeSeq: engine.TradeSeq(),
		Created:  time.Now(),
		Orders:   make([]OrderEntry, 0, 1024),
	}

	collect := func(lvl *book.PriceLevel) bool {
		for o := lvl.Head(); o != nil; o = o.Next() {
			s.Orders = append(s.Orders, OrderEntry{
				ID:    o.ID,
				Side:  int(o.Side),
				Price: o.Price,
				Qty:   o.Remaining(),
				Seq:   o.Seq,
				Time:  o.Timestamp.UnixNano(),
			})
		}
		return true
	}

	engine.BidsWalk(collect)
	engine.AsksWalk(collect)

	return gob.NewEncoder(f).Encode(&s)
}
