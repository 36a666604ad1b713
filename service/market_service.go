// Package service orchestrates the core components: matching engine,
// display tree, journal, outbox and sequencer. It is the only write
// entry point, decoupled from any transport.
package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"vanta/domain/book"
	"vanta/domain/pricetree"
	"vanta/infra/journal"
	"vanta/infra/outbox"
	"vanta/infra/sequence"
)

// Stats bundles the on-demand derived metrics.
type Stats struct {
	VWAP      float64 `json:"vwap"`
	Imbalance float64 `json:"imbalance"`
}

// tradeEvent is the outbox payload shipped to the trade feed.
type tradeEvent struct {
	V           int    `json:"v"`
	Type        string `json:"type"`
	ID          string `json:"id"`
	BuyOrderID  string `json:"buy_order_id"`
	SellOrderID string `json:"sell_order_id"`
	Price       int64  `json:"price"`
	Qty         int64  `json:"qty"`
	Seq         uint64 `json:"seq"`
	Ts          int64  `json:"ts"`
}

// MarketService owns one instrument's engine and display tree for the
// session. All dependencies are injected; journal and outbox may be nil
// to disable durability (tests, embedded use).
type MarketService struct {
	mu sync.Mutex

	engine *book.Engine
	tree   *pricetree.Tree
	seqGen *sequence.Sequencer

	journal *journal.Journal
	outbox  *outbox.Outbox
}

func NewMarketService(
	engine *book.Engine,
	tree *pricetree.Tree,
	seqGen *sequence.Sequencer,
	jnl *journal.Journal,
	ob *outbox.Outbox,
) *MarketService {
	return &MarketService{
		engine:  engine,
		tree:    tree,
		seqGen:  seqGen,
		journal: jnl,
		outbox:  ob,
	}
}

// SubmitOrder feeds one new order into the matching engine. The caller
// generates the id and timestamp; the service assigns the sequence,
// journals the accepted order, and stages resulting trades for the
// publisher. Invalid orders are rejected before any mutation.
func (s *MarketService) SubmitOrder(o book.Order) ([]book.Trade, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o.Seq = s.seqGen.Next()

	if s.journal != nil {
		rec := journal.NewRecord(journal.RecordPlace, o.Seq, placePayload(o))
		rec.Time = o.Timestamp.UnixNano()
		if err := s.journal.Append(rec); err != nil {
			return nil, fmt.Errorf("journal order %s: %w", o.ID, err)
		}
	}

	trades, err := s.engine.Submit(o)
	if err != nil {
		return nil, err
	}

	if s.outbox != nil {
		for _, t := range trades {
			if err := s.stageTrade(t); err != nil {
				return trades, err
			}
		}
	}

	return trades, nil
}

// SubmitForDisplay records the same order in the price tree projection.
// Callers pair it with SubmitOrder using the identical order value; the
// two structures deliberately never share state.
func (s *MarketService) SubmitForDisplay(o book.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tree.Insert(o)
}

// Depth returns aggregated resting volume, at most levels per side.
func (s *MarketService) Depth(levels int) book.DepthView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Depth(levels)
}

// Statistics returns the trailing-24h VWAP and the book imbalance.
func (s *MarketService) Statistics() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		VWAP:      s.engine.VWAP(book.DefaultVWAPWindow),
		Imbalance: s.engine.Imbalance(),
	}
}

// Trades exposes the trade tape. Read-only.
func (s *MarketService) Trades() []book.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Trades()
}

// TreeSnapshot returns the structural dump for visualization.
func (s *MarketService) TreeSnapshot() pricetree.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tree.Snapshot()
}

func (s *MarketService) stageTrade(t book.Trade) error {
	payload, err := json.Marshal(tradeEvent{
		V:           1,
		Type:        "trade",
		ID:          t.ID,
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Price:       t.Price,
		Qty:         t.Qty,
		Seq:         t.Seq,
		Ts:          t.Timestamp.UnixNano(),
	})
	if err != nil {
		return err
	}
	if err := s.outbox.Put(t.Seq, payload); err != nil {
		return fmt.Errorf("stage trade %s: %w", t.ID, err)
	}
	return nil
}
