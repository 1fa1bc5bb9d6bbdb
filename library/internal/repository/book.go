package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
)

var bookColumns = []string{"id", "title", "author", "description", "image_url", "quantity", "total_copies"}

func getBook(ctx context.Context, q querier, id int64) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, err
	}
	return collectOne[model.Book](rows, fmt.Sprintf("book %d", id))
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return getBook(ctx, r.db, id)
}

func (r *repository) ListBooks(ctx context.Context, page, size int) (model.ListBooks, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM books`).Scan(&total); err != nil {
		return model.ListBooks{}, err
	}

	query, args, err := paging(qb.Select(bookColumns...).From(booksTableName), page, size).
		OrderBy("id").
		ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.ListBooks{}, err
	}
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return model.ListBooks{}, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: books,
	}, nil
}

func (r *repository) CreateBook(ctx context.Context, in model.BookInput) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "description", "image_url", "quantity", "total_copies").
		Values(in.Title, in.Author, in.Description, in.ImageURL, in.Quantity, in.Quantity).
		Suffix("RETURNING " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, classify(err)
	}
	book, err := collectOne[model.Book](rows, "book")
	return book, errors.Wrap(err, "repo.CreateBook")
}

// UpdateBook changes catalogue fields only; stock moves through AdjustStock.
func (r *repository) UpdateBook(ctx context.Context, id int64, in model.BookInput) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		SetMap(map[string]interface{}{
			"title":       in.Title,
			"author":      in.Author,
			"description": in.Description,
			"image_url":   in.ImageURL,
		}).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Book{}, classify(err)
	}
	return collectOne[model.Book](rows, fmt.Sprintf("book %d", id))
}

func (r *repository) AdjustStock(ctx context.Context, id int64, delta int) (model.Book, error) {
	var out model.Book
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := getBook(ctx, tx, id); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, `
update books
    set quantity = quantity + @delta,
        total_copies = total_copies + @delta
where id = @id and quantity + @delta >= 0 and total_copies + @delta >= 0
returning `+strings.Join(bookColumns, ", "),
			pgx.NamedArgs{"id": id, "delta": delta})
		if err != nil {
			return err
		}
		out, err = collectOne[model.Book](rows, fmt.Sprintf("book %d", id))
		if errs.Is(err, errs.ErrNotFound) {
			return errs.New(errs.ErrConflict, "book %d: stock cannot drop below zero", id)
		}
		return err
	})
	return out, errors.Wrap(err, "repo.AdjustStock")
}

func (r *repository) DeleteBook(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(classify(err), "repo.DeleteBook")
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFound("book %d", id)
	}
	return nil
}
