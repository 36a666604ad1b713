// Package snapshot persists the resting state of the matching engine so
// the journal can be truncated. A snapshot holds active resting orders
// only; the trade tape is covered by the outbox.
package snapshot

import "time"

type Snapshot struct {
	Seq      uint64
	TradeSeq uint64
	Created  time.Time
	Orders   []OrderEntry
}

type OrderEntry struct {
	ID    string
	Side  int
	Price int64
	Qty   int64
	Seq   uint64
	Time  int64
}
