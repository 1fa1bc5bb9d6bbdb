package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/auth"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
)

// RecordEvent stores a consumed borrow event. Redelivered events are ignored.
func (s *Service) RecordEvent(ctx context.Context, ev kafka.BorrowEvent) error {
	id, err := uuid.Parse(ev.EventID)
	if err != nil {
		return errs.Validation("eventId %q: %v", ev.EventID, err)
	}
	if ev.BorrowID <= 0 || ev.UserID <= 0 || ev.Action == "" {
		return errs.Validation("incomplete borrow event %s", ev.EventID)
	}
	return s.repo.InsertEvent(ctx, model.BorrowEvent{
		EventID:    id,
		BorrowID:   ev.BorrowID,
		BookID:     ev.BookID,
		UserID:     ev.UserID,
		Action:     model.Action(ev.Action),
		FromStatus: model.Status(ev.FromStatus),
		ToStatus:   model.Status(ev.ToStatus),
		ActorID:    ev.ActorID,
		OccurredAt: ev.OccurredAt,
	})
}

func (s *Service) Stats(ctx context.Context, caller auth.Identity) ([]model.UserStats, error) {
	if err := ensureAdmin(caller); err != nil {
		return nil, err
	}
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []model.UserStats{}
	}
	return stats, nil
}

func (s *Service) LedgerReport(ctx context.Context, caller auth.Identity) ([]model.LedgerDrift, error) {
	if err := ensureAdmin(caller); err != nil {
		return nil, err
	}
	return s.CheckLedger(ctx)
}

// CheckLedger reports books out of balance. It never repairs them.
func (s *Service) CheckLedger(ctx context.Context) ([]model.LedgerDrift, error) {
	drift, err := s.repo.LedgerDrift(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range drift {
		s.log.Warn("ledger drift",
			zap.Int64("bookId", d.BookID),
			zap.Int("quantity", d.Quantity),
			zap.Int("borrowed", d.Borrowed),
			zap.Int("totalCopies", d.TotalCopies))
	}
	if drift == nil {
		drift = []model.LedgerDrift{}
	}
	return drift, nil
}
