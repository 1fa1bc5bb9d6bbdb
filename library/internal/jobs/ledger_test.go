package jobs

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/model"
)

type checkerFunc func(ctx context.Context) ([]model.LedgerDrift, error)

func (f checkerFunc) CheckLedger(ctx context.Context) ([]model.LedgerDrift, error) { return f(ctx) }

func TestNewScheduler(t *testing.T) {
	calls := 0
	checker := checkerFunc(func(ctx context.Context) ([]model.LedgerDrift, error) {
		calls++
		_, ok := ctx.Deadline()
		require.True(t, ok)
		if calls == 1 {
			return []model.LedgerDrift{{BookID: 1, Quantity: 1, TotalCopies: 3}}, nil
		}
		return nil, errors.New("db down")
	})

	_, err := NewScheduler("not a schedule", checker, zap.NewNop())
	require.Error(t, err)

	s, err := NewScheduler("@every 10m", checker, zap.NewExample())
	require.NoError(t, err)
	require.Len(t, s.cron.Entries(), 1)

	s.CheckLedger()
	s.CheckLedger()
	require.Equal(t, 2, calls)

	s.Start()
	s.Stop(context.Background())
}
