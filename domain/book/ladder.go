package book

import "github.com/google/btree"

const ladderDegree = 32

// ladder orders the price levels of one side so that the minimum item
// is always the best price: highest first for bids, lowest first for
// asks. FIFO within a level comes from PriceLevel itself.
type ladder struct {
	side   Side
	levels *btree.BTreeG[*PriceLevel]
}

func newLadder(side Side) *ladder {
	less := func(a, b *PriceLevel) bool { return a.Price < b.Price }
	if side == Buy {
		less = func(a, b *PriceLevel) bool { return a.Price > b.Price }
	}
	return &ladder{
		side:   side,
		levels: btree.NewG(ladderDegree, less),
	}
}

func (l *ladder) getOrCreate(price int64) *PriceLevel {
	if lvl, ok := l.levels.Get(&PriceLevel{Price: price}); ok {
		return lvl
	}
	lvl := &PriceLevel{Price: price}
	l.levels.ReplaceOrInsert(lvl)
	return lvl
}

// best returns the level an incoming opposite-side order matches first,
// or nil when the side is empty.
func (l *ladder) best() *PriceLevel {
	lvl, ok := l.levels.Min()
	if !ok {
		return nil
	}
	return lvl
}

func (l *ladder) remove(lvl *PriceLevel) {
	l.levels.Delete(lvl)
}

func (l *ladder) len() int {
	return l.levels.Len()
}

// walk visits levels from best to worst. Return false to stop.
func (l *ladder) walk(fn func(*PriceLevel) bool) {
	l.levels.Ascend(fn)
}

func (l *ladder) totalQty() int64 {
	var sum int64
	l.levels.Ascend(func(lvl *PriceLevel) bool {
		sum += lvl.TotalQty
		return true
	})
	return sum
}
