package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/auth"
)

var errBadCredentials = errs.New(errs.ErrUnauthenticated, "invalid email or password")

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	return s.createUser(ctx, req, auth.RoleUser)
}

// CreateAdmin bootstraps an administrator account.
func (s *Service) CreateAdmin(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	return s.createUser(ctx, req, auth.RoleAdmin)
}

func (s *Service) createUser(ctx context.Context, req model.RegisterRequest, role auth.Role) (model.User, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return model.User{}, errs.Validation("name and email are required")
	}
	if len(req.Password) < 6 {
		return model.User{}, errs.Validation("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "bcrypt")
	}
	u, err := s.repo.CreateUser(ctx, model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: string(hash),
		Role:     role,
	})
	if err != nil {
		return model.User{}, err
	}
	s.log.Info("user registered", zap.Int64("userId", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	if s.tokens == nil {
		return model.LoginResponse{}, errors.New("token issuer is not configured")
	}
	u, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.LoginResponse{}, errBadCredentials
		}
		return model.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, errBadCredentials
	}
	token, exp, err := s.tokens.Issue(auth.Identity{UserID: u.ID, Role: u.Role})
	if err != nil {
		return model.LoginResponse{}, err
	}
	return model.LoginResponse{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *Service) Me(ctx context.Context, caller auth.Identity) (model.User, error) {
	if err := ensureCaller(caller); err != nil {
		return model.User{}, err
	}
	return s.repo.GetUserByID(ctx, caller.UserID)
}
