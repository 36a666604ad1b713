package book

import (
	"errors"
	"testing"
	"time"
)

func submit(t *testing.T, e *Engine, id string, side Side, price, qty int64) []Trade {
	t.Helper()
	trades, err := e.Submit(Order{
		ID:        id,
		Side:      side,
		Price:     price,
		Qty:       qty,
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("submit %s: %v", id, err)
	}
	return trades
}

func TestFullMatchEmptiesBook(t *testing.T) {
	e := NewEngine()

	submit(t, e, "b1", Buy, 100, 10)
	trades := submit(t, e, "s1", Sell, 100, 10)

	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Price != 100 || trades[0].Qty != 10 {
		t.Errorf("unexpected trade %+v", trades[0])
	}
	if trades[0].BuyOrderID != "b1" || trades[0].SellOrderID != "s1" {
		t.Errorf("wrong order ids on trade %+v", trades[0])
	}
	if e.BidLevels() != 0 || e.AskLevels() != 0 {
		t.Error("both sides should be empty after full match")
	}
}

func TestPartialFillRestsRemainder(t *testing.T) {
	e := NewEngine()

	submit(t, e, "b1", Buy, 101, 5)
	trades := submit(t, e, "s1", Sell, 100, 3)

	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	// Execution happens at the resting bid's price, not the seller's.
	if trades[0].Price != 101 || trades[0].Qty != 3 {
		t.Errorf("unexpected trade %+v", trades[0])
	}

	depth := e.Depth(10)
	if len(depth.Bids) != 1 || depth.Bids[0].Price != 101 || depth.Bids[0].Qty != 2 {
		t.Errorf("expected bid 2@101 resting, got %+v", depth.Bids)
	}
	if len(depth.Asks) != 0 {
		t.Errorf("ask side should be empty, got %+v", depth.Asks)
	}
}

func TestIncomingBuyTradesAtAskPrice(t *testing.T) {
	e := NewEngine()

	submit(t, e, "s1", Sell, 100, 3)
	trades := submit(t, e, "b1", Buy, 101, 5)

	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Price != 100 {
		t.Errorf("trade must execute at the resting ask 100, got %d", trades[0].Price)
	}

	depth := e.Depth(10)
	if len(depth.Bids) != 1 || depth.Bids[0].Price != 101 || depth.Bids[0].Qty != 2 {
		t.Errorf("expected bid 2@101 resting, got %+v", depth.Bids)
	}
}

func TestFIFOWithinPriceLevel(t *testing.T) {
	e := NewEngine()

	submit(t, e, "s1", Sell, 50, 5)
	submit(t, e, "s2", Sell, 50, 5)
	trades := submit(t, e, "b1", Buy, 50, 8)

	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].SellOrderID != "s1" || trades[0].Qty != 5 {
		t.Errorf("first trade should fully consume s1, got %+v", trades[0])
	}
	if trades[1].SellOrderID != "s2" || trades[1].Qty != 3 {
		t.Errorf("second trade should take 3 from s2, got %+v", trades[1])
	}

	depth := e.Depth(10)
	if len(depth.Asks) != 1 || depth.Asks[0].Qty != 2 {
		t.Errorf("s2 should rest with qty 2, got %+v", depth.Asks)
	}
}

func TestPriceImprovementAcrossLevels(t *testing.T) {
	e := NewEngine()

	submit(t, e, "s1", Sell, 100, 2)
	submit(t, e, "s2", Sell, 102, 2)
	trades := submit(t, e, "b1", Buy, 105, 3)

	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	// Each partial fill executes at its own resting price.
	if trades[0].Price != 100 || trades[0].Qty != 2 {
		t.Errorf("unexpected first trade %+v", trades[0])
	}
	if trades[1].Price != 102 || trades[1].Qty != 1 {
		t.Errorf("unexpected second trade %+v", trades[1])
	}
}

func TestNoCrossLeavesBothResting(t *testing.T) {
	e := NewEngine()

	submit(t, e, "b1", Buy, 99, 5)
	trades := submit(t, e, "s1", Sell, 101, 5)

	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(trades))
	}
	if e.BidLevels() != 1 || e.AskLevels() != 1 {
		t.Error("both orders should rest")
	}
}

func TestConservation(t *testing.T) {
	e := NewEngine()

	submit(t, e, "s1", Sell, 100, 7)
	trades := submit(t, e, "b1", Buy, 100, 4)

	var traded int64
	for _, tr := range trades {
		traded += tr.Qty
	}
	if traded != 4 {
		t.Fatalf("incoming decrease should equal traded qty, got %d", traded)
	}

	depth := e.Depth(10)
	if depth.Asks[0].Qty != 7-traded {
		t.Errorf("resting decrease mismatch: %+v", depth.Asks)
	}
}

func TestZeroQuantityNeverRests(t *testing.T) {
	e := NewEngine()

	submit(t, e, "s1", Sell, 100, 5)
	submit(t, e, "b1", Buy, 100, 5)

	depth := e.Depth(10)
	for _, lvl := range append(depth.Bids, depth.Asks...) {
		if lvl.Qty <= 0 {
			t.Errorf("zero-quantity level left resting: %+v", lvl)
		}
	}
	if e.BidLevels()+e.AskLevels() != 0 {
		t.Error("filled orders must be removed immediately")
	}
}

func TestInvalidOrderRejectedWithoutMutation(t *testing.T) {
	e := NewEngine()

	cases := []Order{
		{ID: "x1", Side: Buy, Price: 0, Qty: 5},
		{ID: "x2", Side: Buy, Price: -10, Qty: 5},
		{ID: "x3", Side: Sell, Price: 100, Qty: 0},
		{ID: "x4", Side: Sell, Price: 100, Qty: -3},
		{ID: "", Side: Buy, Price: 100, Qty: 5},
	}

	for _, o := range cases {
		if _, err := e.Submit(o); !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("order %+v: expected ErrInvalidOrder, got %v", o, err)
		}
	}

	if e.BidLevels()+e.AskLevels() != 0 || len(e.Trades()) != 0 {
		t.Error("rejected orders must leave the engine untouched")
	}
}

func TestTapeGrowsMonotonically(t *testing.T) {
	e := NewEngine()

	submit(t, e, "s1", Sell, 100, 1)
	submit(t, e, "b1", Buy, 100, 1)
	submit(t, e, "s2", Sell, 100, 1)
	submit(t, e, "b2", Buy, 100, 1)

	tape := e.Trades()
	if len(tape) != 2 {
		t.Fatalf("expected 2 tape entries, got %d", len(tape))
	}
	if tape[0].Seq >= tape[1].Seq {
		t.Errorf("trade seq must increase: %d then %d", tape[0].Seq, tape[1].Seq)
	}
	if tape[0].ID == tape[1].ID {
		t.Error("trade ids must be unique")
	}
}
