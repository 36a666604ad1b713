package book

import "time"

// Trade records one execution. Price is always the resting order's
// price. Trades are immutable once appended to the tape.
type Trade struct {
	ID          string
	BuyOrderID  string
	SellOrderID string
	Price       int64
	Qty         int64
	Seq         uint64
	Timestamp   time.Time
}
