package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the subset of pgxpool.Pool the repositories use. Tests can supply
// a lightweight mock without changing the package's public interface.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Store aggregates repositories backed by PostgreSQL.
type Store struct {
	pool Pool

	Users     UserRepository
	Jobs      JobRepository
	Proposals ProposalRepository
	Company   CompanyRepository
}

// New wires concrete repository implementations with a shared connection pool.
func New(pool *pgxpool.Pool) *Store {
	return NewWithPool(pool)
}

// NewWithPool is like New but accepts any Pool implementation.
func NewWithPool(pool Pool) *Store {
	return &Store{
		pool:      pool,
		Users:     &userRepo{pool: pool},
		Jobs:      &jobRepo{pool: pool},
		Proposals: &proposalRepo{pool: pool},
		Company:   &companyRepo{pool: pool},
	}
}

// HealthCheck verifies that the underlying database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	defer observeDB(ctx, "db.healthcheck")()
	return s.pool.Ping(ctx)
}
