package service

import (
	"context"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/auth"
)

func (s *Service) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	if page < 0 || size < 0 {
		return model.ListBooks{}, errs.Validation("page and size must not be negative")
	}
	list, err := s.repo.ListBooks(ctx, page, size)
	if err != nil {
		return model.ListBooks{}, err
	}
	if list.Items == nil {
		list.Items = []model.Book{}
	}
	return list, nil
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	if id <= 0 {
		return model.Book{}, errs.Validation("bookId is required")
	}
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, caller auth.Identity, in model.BookInput) (model.Book, error) {
	if err := ensureAdmin(caller); err != nil {
		return model.Book{}, err
	}
	if in.Quantity < 0 {
		return model.Book{}, errs.Validation("quantity must not be negative")
	}
	return s.repo.CreateBook(ctx, in)
}

func (s *Service) UpdateBook(ctx context.Context, caller auth.Identity, id int64, in model.BookInput) (model.Book, error) {
	if err := ensureAdmin(caller); err != nil {
		return model.Book{}, err
	}
	if id <= 0 {
		return model.Book{}, errs.Validation("bookId is required")
	}
	return s.repo.UpdateBook(ctx, id, in)
}

// AdjustStock adds or removes owned copies; the available count follows.
func (s *Service) AdjustStock(ctx context.Context, caller auth.Identity, id int64, delta int) (model.Book, error) {
	if err := ensureAdmin(caller); err != nil {
		return model.Book{}, err
	}
	if id <= 0 {
		return model.Book{}, errs.Validation("bookId is required")
	}
	if delta == 0 {
		return model.Book{}, errs.Validation("delta must not be zero")
	}
	var b model.Book
	err := s.withRetry(ctx, "adjust-stock", func(ctx context.Context) error {
		var err error
		b, err = s.repo.AdjustStock(ctx, id, delta)
		return err
	})
	return b, err
}

func (s *Service) DeleteBook(ctx context.Context, caller auth.Identity, id int64) error {
	if err := ensureAdmin(caller); err != nil {
		return err
	}
	if id <= 0 {
		return errs.Validation("bookId is required")
	}
	return s.repo.DeleteBook(ctx, id)
}
