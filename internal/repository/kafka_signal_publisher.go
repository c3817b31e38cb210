package repository

import (
	"context"
	"fmt"

	"SolSignal/internal/domain/models"
	domrepo "SolSignal/internal/domain/repository"
	pkgkafka "SolSignal/pkg/kafka"
)

// KafkaSignalPublisher publishes emitted signals to a topic, keyed by
// symbol so one symbol's signals stay ordered on a partition.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, s models.Signal) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(s.Symbol), s); err != nil {
		return fmt.Errorf("publish signal: %w", err)
	}
	return nil
}

func (p *KafkaSignalPublisher) Close() error {
	return p.producer.Close()
}

var _ domrepo.SignalPublisher = (*KafkaSignalPublisher)(nil)
