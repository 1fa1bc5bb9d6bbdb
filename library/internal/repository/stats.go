package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-borrow/library/internal/model"
)

func (r *repository) InsertEvent(ctx context.Context, ev model.BorrowEvent) error {
	q := `
insert into borrow_events (event_id, borrow_id, book_id, user_id, action, from_status, to_status, actor_id, occurred_at)
values (@event_id, @borrow_id, @book_id, @user_id, @action, @from_status, @to_status, @actor_id, @occurred_at)
on conflict (event_id) do nothing`
	args := pgx.NamedArgs{
		"event_id":    ev.EventID,
		"borrow_id":   ev.BorrowID,
		"book_id":     ev.BookID,
		"user_id":     ev.UserID,
		"action":      string(ev.Action),
		"from_status": string(ev.FromStatus),
		"to_status":   string(ev.ToStatus),
		"actor_id":    ev.ActorID,
		"occurred_at": ev.OccurredAt,
	}
	_, err := r.db.Exec(ctx, q, args)
	return errors.Wrap(err, "repo.InsertEvent")
}

func (r *repository) Stats(ctx context.Context) ([]model.UserStats, error) {
	q := `
select user_id,
       count(*) filter (where action = 'request')                              as requests,
       count(*) filter (where action = 'approve')                              as approvals,
       count(*) filter (where action = 'reject')                               as rejections,
       count(*) filter (where action = 'confirm-borrow')                       as borrows,
       count(*) filter (where action in ('confirm-return', 'self-return'))     as returns,
       count(*) filter (where action = 'cancel')                               as cancellations,
       max(occurred_at)                                                        as last_activity
from borrow_events
group by user_id
order by user_id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	stats, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.UserStats])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return stats, nil
}

// LedgerDrift lists books whose available count plus copies on loan
// disagrees with the copies owned.
func (r *repository) LedgerDrift(ctx context.Context) ([]model.LedgerDrift, error) {
	q := `
select b.id as book_id, b.title, b.quantity, b.total_copies, count(br.id) as borrowed
from books b
    left join borrows br on br.book_id = b.id and br.status = 'borrowed'
group by b.id
having b.quantity < 0 or b.quantity + count(br.id) <> b.total_copies
order by b.id`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	drift, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.LedgerDrift])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return drift, nil
}
