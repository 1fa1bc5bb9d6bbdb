package model

import (
	"time"

	"github.com/Astemirdum/library-borrow/pkg/auth"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListBorrows struct {
	Paging `json:",inline"`
	Items  []BorrowView `json:"items"`
}

type Book struct {
	ID          int64   `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Author      string  `json:"author" db:"author"`
	Description string  `json:"description" db:"description"`
	ImageURL    *string `json:"imageUrl" db:"image_url"`
	Quantity    int     `json:"quantity" db:"quantity"`
	TotalCopies int     `json:"totalCopies" db:"total_copies"`
}

// Requestable reports whether a new borrow request may target the book.
func (b Book) Requestable() bool {
	return b.Quantity > 0
}

type BookInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Author      string  `json:"author" validate:"required,max=255"`
	Description string  `json:"description"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
}

type StockDelta struct {
	Delta int `json:"delta" validate:"required"`
}

type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Role      auth.Role `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type UserStats struct {
	UserID        int64     `json:"userId" db:"user_id"`
	Requests      int       `json:"requests" db:"requests"`
	Approvals     int       `json:"approvals" db:"approvals"`
	Rejections    int       `json:"rejections" db:"rejections"`
	Borrows       int       `json:"borrows" db:"borrows"`
	Returns       int       `json:"returns" db:"returns"`
	Cancellations int       `json:"cancellations" db:"cancellations"`
	LastActivity  time.Time `json:"lastActivity" db:"last_activity"`
}

// LedgerDrift is a book whose available count disagrees with its copies on loan.
type LedgerDrift struct {
	BookID      int64  `json:"bookId" db:"book_id"`
	Title       string `json:"title" db:"title"`
	Quantity    int    `json:"quantity" db:"quantity"`
	TotalCopies int    `json:"totalCopies" db:"total_copies"`
	Borrowed    int    `json:"borrowed" db:"borrowed"`
}
