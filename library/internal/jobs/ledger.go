package jobs

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/model"
)

type LedgerChecker interface {
	CheckLedger(ctx context.Context) ([]model.LedgerDrift, error)
}

// Scheduler runs the ledger reconciliation report on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	checker LedgerChecker
	timeout time.Duration
	log     *zap.Logger
}

func NewScheduler(schedule string, checker LedgerChecker, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		checker: checker,
		timeout: time.Minute,
		log:     log.Named("ledger-job"),
	}
	if _, err := s.cron.AddFunc(schedule, s.CheckLedger); err != nil {
		return nil, errors.Wrapf(err, "ledger schedule %q", schedule)
	}
	return s, nil
}

// CheckLedger runs one reconciliation pass. Drift is reported, never repaired.
func (s *Scheduler) CheckLedger() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	drift, err := s.checker.CheckLedger(ctx)
	if err != nil {
		s.log.Error("ledger check", zap.Error(err))
		return
	}
	if len(drift) == 0 {
		s.log.Debug("ledger balanced")
		return
	}
	s.log.Warn("ledger drift detected", zap.Int("books", len(drift)))
}

func (s *Scheduler) Start() {
	s.log.Info("starting ledger scheduler")
	s.cron.Start()
}

// Stop waits for a running check to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.log.Info("ledger scheduler stopped")
}
