package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles all repositories behind one handle so a reconciliation
// can run every write through a single transaction. RunInTransaction
// passes a transaction-scoped Store to fn; any error aborts the whole
// unit and rolls back everything fn did.
type Store interface {
	Events() EventRepository
	Users() UserRepository
	Credentials() CredentialRepository
	Templates() TemplateRepository
	Assignments() AssignmentRepository
	Donations() DonationRepository
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type pgStore struct {
	db   DBTX
	pool *pgxpool.Pool
}

// NewStore builds a pool-backed Store.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{db: pool, pool: pool}
}

func (s *pgStore) Events() EventRepository           { return NewEventRepository(s.db) }
func (s *pgStore) Users() UserRepository             { return NewUserRepository(s.db) }
func (s *pgStore) Credentials() CredentialRepository { return NewCredentialRepository(s.db) }
func (s *pgStore) Templates() TemplateRepository     { return NewTemplateRepository(s.db) }
func (s *pgStore) Assignments() AssignmentRepository { return NewAssignmentRepository(s.db) }
func (s *pgStore) Donations() DonationRepository     { return NewDonationRepository(s.db) }

func (s *pgStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.pool == nil {
		// Already inside a transaction; run on the same scope.
		return fn(ctx, s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, &pgStore{db: tx})
	})
}
