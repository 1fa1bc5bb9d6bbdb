package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
)

var userColumns = []string{"id", "name", "email", "password", "role", "created_at"}

func (r *repository) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns("name", "email", "password", "role").
		Values(u.Name, strings.ToLower(u.Email), u.Password, string(u.Role)).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, classify(err)
	}
	user, err := collectOne[model.User](rows, "user")
	if errs.Is(err, errs.ErrConflict) {
		return model.User{}, errs.New(errs.ErrConflict, "email %s is already registered", u.Email)
	}
	return user, errors.Wrap(err, "repo.CreateUser")
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"email": strings.ToLower(email)}, "user "+email)
}

func (r *repository) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"id": id}, fmt.Sprintf("user %d", id))
}

func (r *repository) getUser(ctx context.Context, where sq.Eq, what string) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(where).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, err
	}
	return collectOne[model.User](rows, what)
}
