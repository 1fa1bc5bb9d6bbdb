package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
	"github.com/Astemirdum/library-borrow/pkg/auth"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
)

type EventPublisher interface {
	Publish(ctx context.Context, ev kafka.BorrowEvent) error
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, time.Time, error)
}

type Service struct {
	log    *zap.Logger
	repo   repository.Repository
	events EventPublisher
	tokens TokenIssuer
	retry  RetryPolicy
	now    func() time.Time
}

type Option func(*Service)

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

func WithTokenIssuer(t TokenIssuer) Option {
	return func(s *Service) { s.tokens = t }
}

func WithRetry(p RetryPolicy) Option {
	return func(s *Service) { s.retry = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo repository.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:    log.Named("service"),
		repo:   repo,
		events: NoopPublisher{},
		retry:  DefaultRetryPolicy(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func ensureCaller(caller auth.Identity) error {
	if caller.UserID <= 0 {
		return errs.New(errs.ErrUnauthenticated, "caller is not identified")
	}
	return nil
}

func ensureAdmin(caller auth.Identity) error {
	if err := ensureCaller(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return errs.Forbidden("admin role required")
	}
	return nil
}

// subject resolves whose records the caller acts on. Only admins may act
// for someone else.
func subject(caller auth.Identity, userID int64) (int64, error) {
	if err := ensureCaller(caller); err != nil {
		return 0, err
	}
	if userID < 0 {
		return 0, errs.Validation("userId must be positive")
	}
	if userID == 0 {
		return caller.UserID, nil
	}
	if userID != caller.UserID && !caller.IsAdmin() {
		return 0, errs.Forbidden("cannot act on behalf of user %d", userID)
	}
	return userID, nil
}
