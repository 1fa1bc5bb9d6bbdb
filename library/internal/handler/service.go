package handler

import (
	"context"

	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/service"
	"github.com/Astemirdum/library-borrow/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	// borrow lifecycle
	RequestBorrow(ctx context.Context, caller auth.Identity, bookID, userID int64) (model.BorrowResponse, error)
	GetStatus(ctx context.Context, caller auth.Identity, bookID, userID int64) (model.StatusView, error)
	ListUserBorrows(ctx context.Context, caller auth.Identity, userID int64) ([]model.BorrowView, error)
	CancelRequest(ctx context.Context, caller auth.Identity, borrowID int64) error
	SelfReturn(ctx context.Context, caller auth.Identity, bookID, userID int64) (model.Borrow, error)
	AdminListAll(ctx context.Context, caller auth.Identity, f model.BorrowFilter) (model.ListBorrows, error)
	Approve(ctx context.Context, caller auth.Identity, borrowID int64, notes string) (model.Borrow, error)
	Reject(ctx context.Context, caller auth.Identity, borrowID int64, notes string) (model.Borrow, error)
	ConfirmBorrow(ctx context.Context, caller auth.Identity, borrowID int64, notes string) (model.Borrow, error)
	ConfirmReturn(ctx context.Context, caller auth.Identity, borrowID int64, notes string) (model.Borrow, error)

	// catalogue
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, caller auth.Identity, in model.BookInput) (model.Book, error)
	UpdateBook(ctx context.Context, caller auth.Identity, id int64, in model.BookInput) (model.Book, error)
	AdjustStock(ctx context.Context, caller auth.Identity, id int64, delta int) (model.Book, error)
	DeleteBook(ctx context.Context, caller auth.Identity, id int64) error

	// accounts
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	Me(ctx context.Context, caller auth.Identity) (model.User, error)

	// reports
	Stats(ctx context.Context, caller auth.Identity) ([]model.UserStats, error)
	LedgerReport(ctx context.Context, caller auth.Identity) ([]model.LedgerDrift, error)
}

var _ LibraryService = (*service.Service)(nil)
