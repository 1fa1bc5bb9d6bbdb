package repository

import (
	"context"
	"io"
	"net"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
)

type BorrowRepository interface {
	CreateRequest(ctx context.Context, bookID, userID int64, at time.Time) (model.Borrow, error)
	ApplyTransition(ctx context.Context, t model.Transition) (model.Borrow, error)
	GetBorrow(ctx context.Context, id int64) (model.Borrow, error)
	StatusFor(ctx context.Context, bookID, userID int64) (model.StatusView, error)
	ListForUser(ctx context.Context, userID int64) ([]model.BorrowView, error)
	ListAll(ctx context.Context, f model.BorrowFilter) (model.ListBorrows, error)
}

type BookRepository interface {
	ListBooks(ctx context.Context, page, size int) (model.ListBooks, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, in model.BookInput) (model.Book, error)
	UpdateBook(ctx context.Context, id int64, in model.BookInput) (model.Book, error)
	AdjustStock(ctx context.Context, id int64, delta int) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id int64) (model.User, error)
}

type StatsRepository interface {
	InsertEvent(ctx context.Context, ev model.BorrowEvent) error
	Stats(ctx context.Context) ([]model.UserStats, error)
	LedgerDrift(ctx context.Context) ([]model.LedgerDrift, error)
}

type Repository interface {
	BorrowRepository
	BookRepository
	UserRepository
	StatsRepository
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName   = `users`
	booksTableName   = `books`
	borrowsTableName = `borrows`
	eventsTableName  = `borrow_events`

	activePairIndex = `borrows_active_pair_uidx`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// inTx runs fn in a serializable transaction. Retryable failures, including a
// failed commit, come back as errs.ErrTransient.
func (r *repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return errors.Wrapf(errs.ErrTransient, "begin: %v", err)
	}
	defer func() {
		if err := tx.Rollback(context.Background()); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.log.Warn("rollback", zap.Error(err))
		}
	}()

	if err := fn(tx); err != nil {
		return classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		if c := classify(err); c != err {
			return c
		}
		return errors.Wrapf(errs.ErrTransient, "commit: %v", err)
	}
	return nil
}

// classify maps driver failures onto errs kinds. Lost connections and
// timeouts are transient: the transaction never committed.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		var netErr net.Error
		if pgconn.SafeToRetry(err) || pgconn.Timeout(err) ||
			errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			return errors.Wrapf(errs.ErrTransient, "store unavailable: %v", err)
		}
		return err
	}
	switch pgErr.Code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected,
		pgerrcode.QueryCanceled, pgerrcode.LockNotAvailable:
		return errors.Wrap(errs.ErrTransient, pgErr.Message)
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == activePairIndex {
			// a concurrent request won the race; a retry reports its status
			return errors.Wrap(errs.ErrTransient, pgErr.Message)
		}
		return errs.New(errs.ErrConflict, "%s", pgErr.Detail)
	case pgerrcode.ForeignKeyViolation:
		return errs.New(errs.ErrConflict, "%s", pgErr.Detail)
	case pgerrcode.CheckViolation:
		return errs.New(errs.ErrOutOfStock, "%s", pgErr.Message)
	}
	return err
}

func collectOne[T any](rows pgx.Rows, what string) (T, error) {
	v, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, errs.NotFound("%s", what)
		}
		return zero, classify(err)
	}
	return v, nil
}

func paging(q sq.SelectBuilder, page, size int) sq.SelectBuilder {
	if page > 0 && size > 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	return q
}
