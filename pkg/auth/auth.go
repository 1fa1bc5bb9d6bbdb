package auth

import (
	"context"

	"github.com/pkg/errors"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the resolved caller of a request.
type Identity struct {
	UserID int64
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type ctxKey int

const identityKey ctxKey = iota + 1

var ErrNoIdentity = errors.New("caller identity is missing")

func SetAuthContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func GetIdentity(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.UserID <= 0 {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

func IsAdmin(ctx context.Context) bool {
	id, err := GetIdentity(ctx)
	return err == nil && id.IsAdmin()
}
