package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/auth"
	"github.com/Astemirdum/library-borrow/pkg/circuit_breaker"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
)

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, kafka.BorrowEvent) error { return nil }

// KafkaPublisher sends borrow events through a sync producer guarded by a
// circuit breaker so a down broker is not hit on every transition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	cb       *circuit_breaker.CircuitBreaker
	topic    string
}

func NewKafkaPublisher(producer sarama.SyncProducer, cb *circuit_breaker.CircuitBreaker) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		cb:       cb,
		topic:    kafka.BorrowEventsTopic,
	}
}

func (p *KafkaPublisher) Publish(_ context.Context, ev kafka.BorrowEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(ev.BorrowID, 10)),
		Value: sarama.ByteEncoder(data),
	}
	return p.cb.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return errors.Wrap(err, "producer.SendMessage")
	})
}

// publish never fails the caller: the transition is already committed.
func (s *Service) publish(ctx context.Context, caller auth.Identity, b model.Borrow, action model.Action, from model.Status) {
	ev := kafka.BorrowEvent{
		EventID:    uuid.NewString(),
		BorrowID:   b.ID,
		BookID:     b.BookID,
		UserID:     b.UserID,
		Action:     string(action),
		FromStatus: string(from),
		ToStatus:   string(b.Status),
		ActorID:    caller.UserID,
		OccurredAt: s.now(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish borrow event",
			zap.Int64("borrowId", b.ID),
			zap.String("action", ev.Action),
			zap.Error(err))
	}
}
