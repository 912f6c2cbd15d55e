package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-staffing-service/internal/domain"
)

// UserRepository handles persistence for accounts of every role.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListByCreator(ctx context.Context, creatorID string, roles []domain.Role) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	ListExpiredOwners(ctx context.Context, cutoff time.Time) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	DeleteByCreator(ctx context.Context, creatorID string) error
}

type userRepository struct {
	db DBTX
}

// NewUserRepository instantiates the repository.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, password_hash, phone, role, created_by, sent_credentials, expires_at, created_at, updated_at`

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Phone,
		&user.Role,
		&user.CreatedBy,
		&user.SentCredentials,
		&user.ExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password_hash, phone, role, created_by, sent_credentials, expires_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Phone,
		user.Role,
		user.CreatedBy,
		user.SentCredentials,
		user.ExpiresAt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users
        SET username=$1, password_hash=$2, phone=$3, role=$4, sent_credentials=$5, expires_at=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.db.Exec(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Phone,
		user.Role,
		user.SentCredentials,
		user.ExpiresAt,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListByCreator(ctx context.Context, creatorID string, roles []domain.Role) ([]domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE created_by=$1 AND role = ANY($2)
        ORDER BY created_at DESC`

	roleNames := make([]string, 0, len(roles))
	for _, role := range roles {
		roleNames = append(roleNames, string(role))
	}

	rows, err := r.db.Query(ctx, query, creatorID, roleNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY created_at DESC`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *userRepository) ListExpiredOwners(ctx context.Context, cutoff time.Time) ([]domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE role=$1 AND expires_at IS NOT NULL AND expires_at <= $2`

	rows, err := r.db.Query(ctx, query, domain.RoleOwner, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) DeleteByCreator(ctx context.Context, creatorID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE created_by=$1`, creatorID)
	return err
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
