// Command server wires the matching core to its collaborators: order
// journal, book snapshots, trade outbox and Kafka feeds. Orders arrive
// as JSON lines on stdin; any richer transport is a separate concern
// and plugs in at the service API.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"vanta/domain/book"
	"vanta/domain/pricetree"
	"vanta/infra/journal"
	"vanta/infra/kafka"
	"vanta/infra/outbox"
	"vanta/infra/sequence"
	"vanta/jobs/depthfeed"
	"vanta/jobs/publisher"
	"vanta/service"
	"vanta/snapshot"
)

type orderRequest struct {
	ID    string `json:"id"`
	Side  string `json:"side"`
	Price int64  `json:"price"`
	Qty   int64  `json:"qty"`
}

func main() {
	_ = godotenv.Load()

	journalDir := envOr("VANTA_JOURNAL_DIR", "./data/journal")
	outboxDir := envOr("VANTA_OUTBOX_DIR", "./data/outbox")
	snapshotDir := envOr("VANTA_SNAPSHOT_DIR", "./data/snapshot")
	brokers := os.Getenv("VANTA_KAFKA_BROKERS")
	tradeTopic := envOr("VANTA_TRADE_TOPIC", "vanta.trades")
	depthTopic := envOr("VANTA_DEPTH_TOPIC", "vanta.depth")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------- Domain ----------------

	engine := book.NewEngine()
	tree := pricetree.New()
	seqGen := sequence.New(0)

	// ---------------- Restore ----------------

	snapSeq, err := snapshot.Load(snapshotDir, engine)
	if err != nil {
		log.Fatalf("snapshot load failed: %v", err)
	}
	seqGen.Reset(snapSeq)

	if err := service.ReplayJournal(journalDir, snapSeq, engine, tree, seqGen); err != nil {
		log.Fatalf("journal replay failed: %v", err)
	}

	// ---------------- Infra ----------------

	jnl, err := journal.Open(journal.Config{Dir: journalDir})
	if err != nil {
		log.Fatalf("journal init failed: %v", err)
	}
	defer jnl.Close()

	ob, err := outbox.Open(outboxDir)
	if err != nil {
		log.Fatalf("outbox init failed: %v", err)
	}
	defer ob.Close()

	// ---------------- Service ----------------

	svc := service.NewMarketService(engine, tree, seqGen, jnl, ob)
	svc.StartSnapshotJob(ctx, snapshotDir, 30*time.Second)

	// ---------------- Feeds ----------------

	if brokers != "" {
		brokerList := strings.Split(brokers, ",")

		pub, err := publisher.New(ob, brokerList, tradeTopic)
		if err != nil {
			log.Fatalf("publisher init failed: %v", err)
		}
		defer pub.Close()
		pub.Start(ctx)

		producer := kafka.NewProducer(brokerList, depthTopic)
		defer producer.Close()
		go depthfeed.New(svc, producer, time.Second).Run(ctx)
	} else {
		log.Println("[server] VANTA_KAFKA_BROKERS unset, feeds disabled")
	}

	log.Println("[server] accepting orders on stdin")
	readOrders(ctx, svc)
}

func readOrders(ctx context.Context, svc *service.MarketService) {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req orderRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			log.Printf("[server] bad order: %v", err)
			continue
		}

		o := book.Order{
			ID:        req.ID,
			Side:      parseSide(req.Side),
			Price:     req.Price,
			Qty:       req.Qty,
			Timestamp: time.Now(),
		}
		if o.ID == "" {
			o.ID = uuid.NewString()
		}

		trades, err := svc.SubmitOrder(o)
		if err != nil {
			log.Printf("[server] rejected %s: %v", o.ID, err)
			continue
		}
		if err := svc.SubmitForDisplay(o); err != nil {
			log.Printf("[server] display insert failed for %s: %v", o.ID, err)
		}

		for _, t := range trades {
			log.Printf("[server] trade %s: %d @ %d (buy=%s sell=%s)",
				t.ID, t.Qty, t.Price, t.BuyOrderID, t.SellOrderID)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("[server] stdin: %v", err)
	}
}

func parseSide(s string) book.Side {
	if strings.EqualFold(s, "sell") || strings.EqualFold(s, "ask") {
		return book.Sell
	}
	return book.Buy
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
