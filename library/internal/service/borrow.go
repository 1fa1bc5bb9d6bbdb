package service

import (
	"context"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/auth"
)

func (s *Service) RequestBorrow(ctx context.Context, caller auth.Identity, bookID, userID int64) (model.BorrowResponse, error) {
	if bookID <= 0 {
		return model.BorrowResponse{}, errs.Validation("bookId is required")
	}
	owner, err := subject(caller, userID)
	if err != nil {
		return model.BorrowResponse{}, err
	}

	var b model.Borrow
	err = s.withRetry(ctx, "request", func(ctx context.Context) error {
		var err error
		b, err = s.repo.CreateRequest(ctx, bookID, owner, s.now())
		return err
	})
	if err != nil {
		return model.BorrowResponse{}, err
	}
	s.publish(ctx, caller, b, model.ActionRequest, "")
	return model.BorrowResponse{BorrowID: b.ID, Status: b.Status}, nil
}

func (s *Service) GetStatus(ctx context.Context, caller auth.Identity, bookID, userID int64) (model.StatusView, error) {
	if bookID <= 0 {
		return model.StatusView{}, errs.Validation("bookId is required")
	}
	owner, err := subject(caller, userID)
	if err != nil {
		return model.StatusView{}, err
	}
	return s.repo.StatusFor(ctx, bookID, owner)
}

func (s *Service) ListUserBorrows(ctx context.Context, caller auth.Identity, userID int64) ([]model.BorrowView, error) {
	if userID <= 0 {
		return nil, errs.Validation("userId is required")
	}
	owner, err := subject(caller, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListForUser(ctx, owner)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.BorrowView{}
	}
	return items, nil
}

func (s *Service) CancelRequest(ctx context.Context, caller auth.Identity, borrowID int64) error {
	if err := ensureCaller(caller); err != nil {
		return err
	}
	var owner int64
	if !caller.IsAdmin() {
		owner = caller.UserID
	}
	_, err := s.transition(ctx, caller, borrowID, model.ActionCancel, "", owner)
	return err
}

// SelfReturn returns the borrowed copy of bookId held by userId.
func (s *Service) SelfReturn(ctx context.Context, caller auth.Identity, bookID, userID int64) (model.Borrow, error) {
	if bookID <= 0 {
		return model.Borrow{}, errs.Validation("bookId is required")
	}
	owner, err := subject(caller, userID)
	if err != nil {
		return model.Borrow{}, err
	}
	active, err := s.repo.StatusFor(ctx, bookID, owner)
	if err != nil {
		return model.Borrow{}, err
	}
	if active.Status == nil || *active.Status != model.StatusBorrowed {
		return model.Borrow{}, errs.NotFound("no borrowed copy of book %d for user %d", bookID, owner)
	}
	b, err := s.transition(ctx, caller, *active.BorrowID, model.ActionSelfReturn, "", owner)
	if errs.Is(err, errs.ErrInvalidState) {
		// returned or otherwise moved on since the lookup
		return model.Borrow{}, errs.NotFound("no borrowed copy of book %d for user %d", bookID, owner)
	}
	return b, err
}

func (s *Service) AdminListAll(ctx context.Context, caller auth.Identity, f model.BorrowFilter) (model.ListBorrows, error) {
	if err := ensureAdmin(caller); err != nil {
		return model.ListBorrows{}, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return model.ListBorrows{}, errs.Validation("unknown status %q", f.Status)
	}
	if f.Page < 0 || f.Size < 0 {
		return model.ListBorrows{}, errs.Validation("page and size must not be negative")
	}
	list, err := s.repo.ListAll(ctx, f)
	if err != nil {
		return model.ListBorrows{}, err
	}
	if list.Items == nil {
		list.Items = []model.BorrowView{}
	}
	return list, nil
}

func (s *Service) Approve(ctx context.Context, caller auth.Identity, borrowID int64, notes string) (model.Borrow, error) {
	return s.transition(ctx, caller, borrowID, model.ActionApprove, notes, 0)
}

func (s *Service) Reject(ctx context.Context, caller auth.Identity, borrowID int64, notes string) (model.Borrow, error) {
	return s.transition(ctx, caller, borrowID, model.ActionReject, notes, 0)
}

func (s *Service) ConfirmBorrow(ctx context.Context, caller auth.Identity, borrowID int64, notes string) (model.Borrow, error) {
	return s.transition(ctx, caller, borrowID, model.ActionConfirmBorrow, notes, 0)
}

func (s *Service) ConfirmReturn(ctx context.Context, caller auth.Identity, borrowID int64, notes string) (model.Borrow, error) {
	return s.transition(ctx, caller, borrowID, model.ActionConfirmReturn, notes, 0)
}

func (s *Service) transition(ctx context.Context, caller auth.Identity, borrowID int64, action model.Action, notes string, owner int64) (model.Borrow, error) {
	if err := ensureCaller(caller); err != nil {
		return model.Borrow{}, err
	}
	if borrowID <= 0 {
		return model.Borrow{}, errs.Validation("borrowId is required")
	}
	rule, ok := model.RuleFor(action)
	if !ok {
		return model.Borrow{}, errs.Validation("unknown action %q", action)
	}
	if rule.AdminOnly && !caller.IsAdmin() {
		return model.Borrow{}, errs.Forbidden("admin role required")
	}

	t := model.Transition{
		BorrowID: borrowID,
		Action:   action,
		Rule:     rule,
		OwnerID:  owner,
		Notes:    notes,
	}
	if t.Notes == "" {
		t.Notes = rule.DefaultNote
	}

	var b model.Borrow
	err := s.withRetry(ctx, string(action), func(ctx context.Context) error {
		t.At = s.now()
		var err error
		b, err = s.repo.ApplyTransition(ctx, t)
		return err
	})
	if err != nil {
		return model.Borrow{}, err
	}
	s.publish(ctx, caller, b, action, rule.From)
	return b, nil
}
