package book

import (
	"time"

	"github.com/google/uuid"

	"vanta/infra/memory"
)

// Engine matches incoming orders against resting liquidity and owns the
// trade tape for its lifetime. It is deterministic and single-writer.
type Engine struct {
	bids *ladder
	asks *ladder

	tape     []Trade
	tradeSeq uint64

	pool *memory.Pool[Order]

	// now is swappable for deterministic tests.
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		bids: newLadder(Buy),
		asks: newLadder(Sell),
		pool: memory.NewPool(func() *Order { return &Order{} }),
		now:  time.Now,
	}
}

// Submit runs one order through the crossing loop and returns the
// trades it produced, oldest first. An invalid order is rejected with
// no state change. Any unfilled remainder rests on the same side.
func (e *Engine) Submit(o Order) ([]Trade, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var trades []Trade

	opposite, same := e.asks, e.bids
	if o.Side == Sell {
		opposite, same = e.bids, e.asks
	}

	for o.Remaining() > 0 {
		best := opposite.best()
		if best == nil {
			break
		}
		if !crosses(o.Side, o.Price, best.Price) {
			break
		}

		head := best.Head()
		qty := min(o.Remaining(), head.Remaining())

		o.Filled += qty
		head.Filled += qty
		best.reduce(qty)

		trades = append(trades, e.record(&o, head, qty))

		if head.Remaining() == 0 {
			best.PopHead()
			e.pool.Put(head)
		}
		if best.Empty() {
			opposite.remove(best)
		}
	}

	if o.Remaining() > 0 {
		r := e.pool.Get()
		*r = o
		same.getOrCreate(r.Price).Enqueue(r)
	}

	return trades, nil
}

// record appends one execution to the tape at the resting order's price.
func (e *Engine) record(incoming *Order, resting *Order, qty int64) Trade {
	buyID, sellID := incoming.ID, resting.ID
	if incoming.Side == Sell {
		buyID, sellID = resting.ID, incoming.ID
	}

	e.tradeSeq++
	t := Trade{
		ID:          uuid.NewString(),
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		Price:       resting.Price,
		Qty:         qty,
		Seq:         e.tradeSeq,
		Timestamp:   e.now(),
	}
	e.tape = append(e.tape, t)
	return t
}

func crosses(side Side, incoming, resting int64) bool {
	if side == Buy {
		return incoming >= resting
	}
	return incoming <= resting
}

// Trades exposes the tape. Callers must treat it as read-only.
func (e *Engine) Trades() []Trade {
	return e.tape
}

// TradeSeq returns the last assigned trade sequence.
func (e *Engine) TradeSeq() uint64 {
	return e.tradeSeq
}

// ResetTradeSeq restores the trade sequence counter after a snapshot
// load, so trade ids stay unique across restarts.
func (e *Engine) ResetTradeSeq(seq uint64) {
	e.tradeSeq = seq
}

// BidLevels and AskLevels report the number of distinct resting prices.
func (e *Engine) BidLevels() int { return e.bids.len() }
func (e *Engine) AskLevels() int { return e.asks.len() }

// BidsWalk visits bid levels from best (highest) to worst.
func (e *Engine) BidsWalk(fn func(*PriceLevel) bool) {
	e.bids.walk(fn)
}

// AsksWalk visits ask levels from best (lowest) to worst.
func (e *Engine) AsksWalk(fn func(*PriceLevel) bool) {
	e.asks.walk(fn)
}
