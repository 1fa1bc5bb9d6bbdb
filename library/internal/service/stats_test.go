package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
)

func TestRecordEventAndStats(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	at := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	ev := kafka.BorrowEvent{
		EventID: uuid.NewString(), BorrowID: 1, BookID: f.book, UserID: f.u1.UserID,
		Action: "request", ToStatus: "pending", ActorID: f.u1.UserID, OccurredAt: at,
	}
	require.NoError(t, f.svc.RecordEvent(ctx, ev))
	require.NoError(t, f.svc.RecordEvent(ctx, ev))

	ev2 := ev
	ev2.EventID = uuid.NewString()
	ev2.Action = "self-return"
	ev2.OccurredAt = at.Add(time.Hour)
	require.NoError(t, f.svc.RecordEvent(ctx, ev2))

	bad := ev
	bad.EventID = "nope"
	require.ErrorIs(t, f.svc.RecordEvent(ctx, bad), errs.ErrValidation)

	_, err := f.svc.Stats(ctx, f.u1)
	require.ErrorIs(t, err, errs.ErrForbidden)

	stats, err := f.svc.Stats(ctx, f.admin)
	require.NoError(t, err)
	require.Equal(t, []model.UserStats{{
		UserID: f.u1.UserID, Requests: 1, Returns: 1, LastActivity: at.Add(time.Hour),
	}}, stats)
}

func TestLedgerReport(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.LedgerReport(ctx, f.u1)
	require.ErrorIs(t, err, errs.ErrForbidden)

	drift, err := f.svc.LedgerReport(ctx, f.admin)
	require.NoError(t, err)
	require.Empty(t, drift)

	f.store.mu.Lock()
	b := f.store.books[f.book]
	b.Quantity = 1
	f.store.books[f.book] = b
	f.store.mu.Unlock()

	drift, err = f.svc.LedgerReport(ctx, f.admin)
	require.NoError(t, err)
	require.Equal(t, []model.LedgerDrift{{BookID: f.book, Title: "Dune", Quantity: 1, TotalCopies: 2}}, drift)
}
