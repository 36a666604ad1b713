// Package publisher drains the trade outbox to Kafka. Delivery is
// at-least-once: a record is marked SENT before the publish attempt and
// ACKED only after the broker confirms, so a crash in between causes a
// resend, never a loss.
package publisher

import (
	"context"
	"log"
	"time"

	"github.com/IBM/sarama"

	"vanta/infra/outbox"
)

type Publisher struct {
	outbox   *outbox.Outbox
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
}

func New(ob *outbox.Outbox, brokers []string, topic string) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		outbox:   ob,
		producer: producer,
		topic:    topic,
		interval: 250 * time.Millisecond,
	}, nil
}

func (p *Publisher) Start(ctx context.Context) {
	log.Println("[publisher] started")

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.publishOnce()
			}
		}
	}()
}

func (p *Publisher) publishOnce() {
	_ = p.outbox.ScanByState(outbox.StateNew, func(seq uint64, rec outbox.Record) error {
		if err := p.outbox.MarkSent(seq); err != nil {
			return err
		}

		msg := &sarama.ProducerMessage{
			Topic: p.topic,
			Value: sarama.ByteEncoder(rec.Payload),
		}

		if _, _, err := p.producer.SendMessage(msg); err != nil {
			return nil // left SENT, retried by the next scan of stalled records
		}

		return p.outbox.MarkAcked(seq)
	})

	// Records stuck in SENT were interrupted mid-publish; resend them.
	_ = p.outbox.ScanByState(outbox.StateSent, func(seq uint64, rec outbox.Record) error {
		if time.Since(time.Unix(0, rec.LastAttempt)) < p.interval {
			return nil
		}

		msg := &sarama.ProducerMessage{
			Topic: p.topic,
			Value: sarama.ByteEncoder(rec.Payload),
		}

		if _, _, err := p.producer.SendMessage(msg); err != nil {
			return nil
		}

		return p.outbox.MarkAcked(seq)
	})
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
