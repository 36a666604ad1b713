// Package depthfeed periodically publishes the aggregated depth and
// derived statistics snapshot to the market-data topic. This is the
// stream the original visualization charted.
package depthfeed

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"vanta/domain/book"
	"vanta/infra/kafka"
	"vanta/service"
)

type Feed struct {
	svc      *service.MarketService
	producer *kafka.Producer
	interval time.Duration
	levels   int
}

type event struct {
	V         int            `json:"v"`
	Type      string         `json:"type"`
	Depth     book.DepthView `json:"depth"`
	VWAP      float64        `json:"vwap"`
	Imbalance float64        `json:"imbalance"`
	Ts        int64          `json:"ts"`
}

func New(svc *service.MarketService, producer *kafka.Producer, interval time.Duration) *Feed {
	return &Feed{
		svc:      svc,
		producer: producer,
		interval: interval,
		levels:   book.DefaultDepthLevels,
	}
}

func (f *Feed) Run(ctx context.Context) {
	log.Println("[depthfeed] started")

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.publishOnce(ctx)
		}
	}
}

func (f *Feed) publishOnce(ctx context.Context) {
	stats := f.svc.Statistics()

	payload, err := json.Marshal(event{
		V:         1,
		Type:      "depth",
		Depth:     f.svc.Depth(f.levels),
		VWAP:      stats.VWAP,
		Imbalance: stats.Imbalance,
		Ts:        time.Now().UnixNano(),
	})
	if err != nil {
		return
	}

	if err := f.producer.Send(ctx, []byte("depth"), payload); err != nil {
		log.Printf("[depthfeed] publish failed: %v", err)
	}
}
