package book

import "time"

// DefaultDepthLevels bounds a depth query when the caller passes 0.
const DefaultDepthLevels = 10

// DefaultVWAPWindow is the trailing window used by the service layer.
const DefaultVWAPWindow = 24 * time.Hour

type DepthLevel struct {
	Price int64 `json:"price"`
	Qty   int64 `json:"qty"`
}

// DepthView aggregates resting quantity per price, best price first on
// both sides: bids highest to lowest, asks lowest to highest.
type DepthView struct {
	Bids []DepthLevel `json:"bids"`
	Asks []DepthLevel `json:"asks"`
}

// Depth is computed fresh from the ladders on every call; cost is
// proportional to the number of distinct resting price levels returned.
func (e *Engine) Depth(levels int) DepthView {
	if levels <= 0 {
		levels = DefaultDepthLevels
	}

	view := DepthView{
		Bids: make([]DepthLevel, 0, levels),
		Asks: make([]DepthLevel, 0, levels),
	}

	e.bids.walk(func(lvl *PriceLevel) bool {
		if len(view.Bids) >= levels {
			return false
		}
		view.Bids = append(view.Bids, DepthLevel{Price: lvl.Price, Qty: lvl.TotalQty})
		return true
	})

	e.asks.walk(func(lvl *PriceLevel) bool {
		if len(view.Asks) >= levels {
			return false
		}
		view.Asks = append(view.Asks, DepthLevel{Price: lvl.Price, Qty: lvl.TotalQty})
		return true
	})

	return view
}

// VWAP returns the volume-weighted average trade price over the
// trailing window, or 0 when no trade falls inside it.
func (e *Engine) VWAP(window time.Duration) float64 {
	cutoff := e.now().Add(-window)

	// Tape timestamps are non-decreasing, so scanning from the tail
	// can stop at the first trade outside the window.
	var volume, weighted int64
	for i := len(e.tape) - 1; i >= 0; i-- {
		t := e.tape[i]
		if t.Timestamp.Before(cutoff) {
			break
		}
		volume += t.Qty
		weighted += t.Price * t.Qty
	}

	if volume == 0 {
		return 0
	}
	return float64(weighted) / float64(volume)
}

// Imbalance returns (bidVol-askVol)/(bidVol+askVol) over resting
// orders, in [-1, 1]. Positive values indicate buy-side pressure.
func (e *Engine) Imbalance() float64 {
	bidVol := e.bids.totalQty()
	askVol := e.asks.totalQty()

	total := bidVol + askVol
	if total == 0 {
		return 0
	}
	return float64(bidVol-askVol) / float64(total)
}
