package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
	"github.com/Astemirdum/library-borrow/library/internal/service"
	"github.com/Astemirdum/library-borrow/pkg/postgres"
)

// Maintenance exposes operator tasks that run outside the HTTP server.
type Maintenance struct {
	pool *pgxpool.Pool
	svc  *service.Service
}

func OpenMaintenance(ctx context.Context, db postgres.DB, log *zap.Logger) (*Maintenance, error) {
	pool, err := postgres.NewPool(ctx, db.DSN(), db.MaxConns)
	if err != nil {
		return nil, err
	}
	repo, err := repository.NewRepository(pool, log)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &Maintenance{pool: pool, svc: service.NewService(repo, log)}, nil
}

func (m *Maintenance) CreateAdmin(ctx context.Context, name, email, password string) (int64, error) {
	u, err := m.svc.CreateAdmin(ctx, model.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func (m *Maintenance) CheckLedger(ctx context.Context) ([]model.LedgerDrift, error) {
	return m.svc.CheckLedger(ctx)
}

func (m *Maintenance) Close() {
	m.pool.Close()
}
