package model

import (
	"time"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusBorrowed  Status = "borrowed"
	StatusReturned  Status = "returned"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusBorrowed,
		StatusReturned, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Active statuses hold the (book, user) pair.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved || s == StatusBorrowed
}

func (s Status) Terminal() bool {
	return s == StatusReturned || s == StatusRejected || s == StatusCancelled
}

var ActiveStatuses = []string{string(StatusPending), string(StatusApproved), string(StatusBorrowed)}

type Action string

const (
	ActionRequest       Action = "request"
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionConfirmBorrow Action = "confirm-borrow"
	ActionConfirmReturn Action = "confirm-return"
	ActionSelfReturn    Action = "self-return"
	ActionCancel        Action = "cancel"
)

// DateField names the record timestamp a transition stamps.
type DateField string

const (
	DateNone     DateField = ""
	DateApproval DateField = "approval_date"
	DateBorrow   DateField = "borrow_date"
	DateReturn   DateField = "return_date"
)

type Rule struct {
	From          Status
	To            Status
	QuantityDelta int
	Date          DateField
	AdminOnly     bool
	DefaultNote   string
	// Delete removes the record instead of storing To.
	Delete bool
}

var rules = map[Action]Rule{
	ActionApprove:       {From: StatusPending, To: StatusApproved, Date: DateApproval, AdminOnly: true},
	ActionReject:        {From: StatusPending, To: StatusRejected, Date: DateApproval, AdminOnly: true},
	ActionConfirmBorrow: {From: StatusApproved, To: StatusBorrowed, QuantityDelta: -1, Date: DateBorrow, AdminOnly: true, DefaultNote: "borrow confirmed"},
	ActionConfirmReturn: {From: StatusBorrowed, To: StatusReturned, QuantityDelta: 1, Date: DateReturn, AdminOnly: true, DefaultNote: "return confirmed"},
	ActionSelfReturn:    {From: StatusBorrowed, To: StatusReturned, QuantityDelta: 1, Date: DateReturn},
	ActionCancel:        {From: StatusPending, To: StatusCancelled, Delete: true},
}

func RuleFor(a Action) (Rule, bool) {
	r, ok := rules[a]
	return r, ok
}

// Next returns the status a record in from reaches through a.
func Next(from Status, a Action) (Status, error) {
	r, ok := rules[a]
	if !ok {
		return "", errs.Validation("unknown action %q", a)
	}
	if from != r.From {
		return "", errs.InvalidState(string(from))
	}
	return r.To, nil
}

type Borrow struct {
	ID           int64      `json:"id" db:"id"`
	BookID       int64      `json:"bookId" db:"book_id"`
	UserID       int64      `json:"userId" db:"user_id"`
	Status       Status     `json:"status" db:"status"`
	RequestDate  time.Time  `json:"requestDate" db:"request_date"`
	ApprovalDate *time.Time `json:"approvalDate" db:"approval_date"`
	BorrowDate   *time.Time `json:"borrowDate" db:"borrow_date"`
	ReturnDate   *time.Time `json:"returnDate" db:"return_date"`
	AdminNotes   *string    `json:"adminNotes" db:"admin_notes"`
}

// BorrowView is a record joined with its book and user.
type BorrowView struct {
	ID           int64      `json:"id" db:"id"`
	BookID       int64      `json:"bookId" db:"book_id"`
	UserID       int64      `json:"userId" db:"user_id"`
	Status       Status     `json:"status" db:"status"`
	RequestDate  time.Time  `json:"requestDate" db:"request_date"`
	ApprovalDate *time.Time `json:"approvalDate" db:"approval_date"`
	BorrowDate   *time.Time `json:"borrowDate" db:"borrow_date"`
	ReturnDate   *time.Time `json:"returnDate" db:"return_date"`
	AdminNotes   *string    `json:"adminNotes" db:"admin_notes"`
	BookTitle    string     `json:"bookTitle" db:"book_title"`
	BookAuthor   string     `json:"bookAuthor" db:"book_author"`
	BookImageURL *string    `json:"bookImageUrl" db:"book_image_url"`
	UserName     string     `json:"userName" db:"user_name"`
	UserEmail    string     `json:"userEmail" db:"user_email"`
}

type StatusView struct {
	Status   *Status `json:"status"`
	BorrowID *int64  `json:"borrowId,omitempty"`
}

type BorrowFilter struct {
	Status Status
	Page   int
	Size   int
}

// Transition is a checked state change applied to one record.
type Transition struct {
	BorrowID int64
	Action   Action
	Rule
	// OwnerID restricts the change to records of that user; 0 skips the check.
	OwnerID int64
	Notes   string
	At      time.Time
}

type BorrowRequest struct {
	BookID int64 `json:"bookId" validate:"required,gt=0"`
	UserID int64 `json:"userId" validate:"omitempty,gt=0"`
}

type CancelRequest struct {
	BorrowID int64 `json:"borrowId" validate:"required,gt=0"`
}

type NotesRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type BorrowResponse struct {
	BorrowID int64  `json:"borrowId"`
	Status   Status `json:"status"`
}

// BorrowEvent is the stored form of a published lifecycle change.
type BorrowEvent struct {
	EventID    uuid.UUID `json:"eventId" db:"event_id"`
	BorrowID   int64     `json:"borrowId" db:"borrow_id"`
	BookID     int64     `json:"bookId" db:"book_id"`
	UserID     int64     `json:"userId" db:"user_id"`
	Action     Action    `json:"action" db:"action"`
	FromStatus Status    `json:"fromStatus" db:"from_status"`
	ToStatus   Status    `json:"toStatus" db:"to_status"`
	ActorID    int64     `json:"actorId" db:"actor_id"`
	OccurredAt time.Time `json:"occurredAt" db:"occurred_at"`
}
