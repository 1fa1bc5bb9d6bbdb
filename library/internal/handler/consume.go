package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
)

type recordEvent func(ctx context.Context, ev kafka.BorrowEvent) error

// Consumer feeds borrow events into the stats read model.
type Consumer struct {
	recordEventHandler recordEvent
	log                *zap.Logger
	ready              chan bool
}

func NewConsumer(recordEvent recordEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		recordEventHandler: recordEvent,
		log:                log.Named("consumer"),
		ready:              make(chan bool),
	}
}

// Ready is closed once the first session is set up.
func (consumer *Consumer) Ready() <-chan bool {
	return consumer.ready
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-consumer.ready:
	default:
		close(consumer.ready)
	}
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			if consumer.handle(session.Context(), message) {
				session.MarkMessage(message, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle reports whether the message is done with. Store failures leave it
// unmarked so it is redelivered.
func (consumer *Consumer) handle(ctx context.Context, message *sarama.ConsumerMessage) bool {
	var ev kafka.BorrowEvent
	if err := json.Unmarshal(message.Value, &ev); err != nil {
		consumer.log.Error("unmarshal borrow event", zap.Error(err), zap.Int64("offset", message.Offset))
		return true
	}
	if err := consumer.recordEventHandler(ctx, ev); err != nil {
		if errors.Is(err, errs.ErrValidation) {
			consumer.log.Error("drop borrow event", zap.String("eventId", ev.EventID), zap.Error(err))
			return true
		}
		consumer.log.Error("consumer.recordEventHandler", zap.Error(err))
		return false
	}
	consumer.log.Debug("Message claimed:",
		zap.String("value", string(message.Value)),
		zap.Time("timestamp", message.Timestamp),
		zap.String("topic", message.Topic))
	return true
}
