package kafka

import "time"

// BorrowEvent is published after a borrow record changes state.
type BorrowEvent struct {
	EventID    string    `json:"eventId"`
	BorrowID   int64     `json:"borrowId"`
	BookID     int64     `json:"bookId"`
	UserID     int64     `json:"userId"`
	Action     string    `json:"action"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ActorID    int64     `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
}
