package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
)

var borrowColumns = []string{
	"id", "book_id", "user_id", "status", "request_date",
	"approval_date", "borrow_date", "return_date", "admin_notes",
}

var dateColumns = map[model.DateField]string{
	model.DateApproval: "approval_date",
	model.DateBorrow:   "borrow_date",
	model.DateReturn:   "return_date",
}

func (r *repository) CreateRequest(ctx context.Context, bookID, userID int64, at time.Time) (model.Borrow, error) {
	var out model.Borrow
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var userExists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&userExists); err != nil {
			return err
		}
		if !userExists {
			return errs.NotFound("user %d", userID)
		}

		book, err := getBook(ctx, tx, bookID)
		if err != nil {
			return err
		}
		if !book.Requestable() {
			return errs.New(errs.ErrOutOfStock, "book %d has no available copies", bookID)
		}

		active, err := activeFor(ctx, tx, bookID, userID)
		if err != nil {
			return err
		}
		if active.Status != nil {
			return errs.WithStatus(errs.ErrConflict, string(*active.Status),
				"book %d already has a %s request", bookID, *active.Status)
		}

		query, args, err := qb.Insert(borrowsTableName).
			Columns("book_id", "user_id", "status", "request_date").
			Values(bookID, userID, string(model.StatusPending), at).
			Suffix("RETURNING " + strings.Join(borrowColumns, ", ")).
			ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = collectOne[model.Borrow](rows, "borrow")
		return err
	})
	if err != nil {
		return model.Borrow{}, errors.Wrap(err, "repo.CreateRequest")
	}
	return out, nil
}

// ApplyTransition locks the record, re-checks owner and status, moves
// stock and stamps the record in one transaction.
func (r *repository) ApplyTransition(ctx context.Context, t model.Transition) (model.Borrow, error) {
	var out model.Borrow
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query, args, err := qb.Select(borrowColumns...).
			From(borrowsTableName).
			Where(sq.Eq{"id": t.BorrowID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		cur, err := collectOne[model.Borrow](rows, fmt.Sprintf("borrow %d", t.BorrowID))
		if err != nil {
			return err
		}

		if t.OwnerID != 0 && cur.UserID != t.OwnerID {
			return errs.Forbidden("borrow %d belongs to another user", cur.ID)
		}
		if cur.Status != t.From {
			return errs.InvalidState(string(cur.Status))
		}

		if t.QuantityDelta != 0 {
			tag, err := tx.Exec(ctx, `
update books
    set quantity = quantity + @delta
where id = @book_id and quantity + @delta >= 0`,
				pgx.NamedArgs{
					"book_id": cur.BookID,
					"delta":   t.QuantityDelta,
				})
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return errs.New(errs.ErrOutOfStock, "book %d has no available copies", cur.BookID)
			}
		}

		if t.Delete {
			if _, err := tx.Exec(ctx, `DELETE FROM borrows WHERE id = $1`, cur.ID); err != nil {
				return err
			}
			cur.Status = t.To
			out = cur
			return nil
		}

		upd := qb.Update(borrowsTableName).
			Set("status", string(t.To)).
			Set("admin_notes", sq.Expr(`NULLIF(concat_ws(E'\n', NULLIF(admin_notes, ''), NULLIF(?, '')), '')`, t.Notes)).
			Where(sq.Eq{"id": cur.ID}).
			Suffix("RETURNING " + strings.Join(borrowColumns, ", "))
		if col, ok := dateColumns[t.Date]; ok {
			upd = upd.Set(col, t.At)
		}
		query, args, err = upd.ToSql()
		if err != nil {
			return err
		}
		rows, err = tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = collectOne[model.Borrow](rows, fmt.Sprintf("borrow %d", cur.ID))
		return err
	})
	if err != nil {
		return model.Borrow{}, errors.Wrapf(err, "repo.ApplyTransition %s", t.Action)
	}
	return out, nil
}

func (r *repository) GetBorrow(ctx context.Context, id int64) (model.Borrow, error) {
	query, args, err := qb.Select(borrowColumns...).
		From(borrowsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Borrow{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Borrow{}, err
	}
	return collectOne[model.Borrow](rows, fmt.Sprintf("borrow %d", id))
}

func (r *repository) StatusFor(ctx context.Context, bookID, userID int64) (model.StatusView, error) {
	return activeFor(ctx, r.db, bookID, userID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func activeFor(ctx context.Context, q querier, bookID, userID int64) (model.StatusView, error) {
	query, args, err := qb.Select("id", "status").
		From(borrowsTableName).
		Where(sq.Eq{"book_id": bookID, "user_id": userID, "status": model.ActiveStatuses}).
		OrderBy("request_date DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return model.StatusView{}, err
	}
	var (
		id     int64
		status model.Status
	)
	if err := q.QueryRow(ctx, query, args...).Scan(&id, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.StatusView{}, nil
		}
		return model.StatusView{}, err
	}
	return model.StatusView{Status: &status, BorrowID: &id}, nil
}

func borrowViews() sq.SelectBuilder {
	return qb.Select(
		"br.id", "br.book_id", "br.user_id", "br.status", "br.request_date",
		"br.approval_date", "br.borrow_date", "br.return_date", "br.admin_notes",
		"b.title AS book_title", "b.author AS book_author", "b.image_url AS book_image_url",
		"u.name AS user_name", "u.email AS user_email",
	).
		From(borrowsTableName + " br").
		Join(booksTableName + " b ON b.id = br.book_id").
		Join(usersTableName + " u ON u.id = br.user_id")
}

func (r *repository) ListForUser(ctx context.Context, userID int64) ([]model.BorrowView, error) {
	query, args, err := borrowViews().
		Where(sq.Eq{"br.user_id": userID}).
		OrderBy("br.request_date DESC", "br.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BorrowView])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return items, nil
}

func (r *repository) ListAll(ctx context.Context, f model.BorrowFilter) (model.ListBorrows, error) {
	where := sq.And{}
	if f.Status != "" {
		where = append(where, sq.Eq{"br.status": string(f.Status)})
	}

	countQuery, countArgs, err := qb.Select("count(*)").
		From(borrowsTableName + " br").
		Where(where).
		ToSql()
	if err != nil {
		return model.ListBorrows{}, err
	}
	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return model.ListBorrows{}, err
	}

	query, args, err := paging(borrowViews().Where(where), f.Page, f.Size).
		OrderBy("br.request_date DESC", "br.id DESC").
		ToSql()
	if err != nil {
		return model.ListBorrows{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListBorrows{}, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BorrowView])
	if err != nil {
		return model.ListBorrows{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return model.ListBorrows{
		Paging: model.Paging{
			Page:          f.Page,
			PageSize:      f.Size,
			TotalElements: total,
		},
		Items: items,
	}, nil
}
