package repository

import (
	"context"

	"github.com/spec-kit/event-staffing-service/internal/domain"
)

// AssignmentRepository manages the event/staff membership edges.
// Detach removes only the edge; the account row survives.
type AssignmentRepository interface {
	Attach(ctx context.Context, eventID, userID string) error
	Detach(ctx context.Context, eventID, userID string) error
	ListMembers(ctx context.Context, eventID string, role domain.Role) ([]domain.User, error)
	IsAssigned(ctx context.Context, eventID, userID string) (bool, error)
}

type assignmentRepository struct {
	db DBTX
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db DBTX) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Attach(ctx context.Context, eventID, userID string) error {
	const query = `
        INSERT INTO event_assignments (event_id, user_id)
        VALUES ($1,$2)
        ON CONFLICT (event_id, user_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, eventID, userID)
	return err
}

func (r *assignmentRepository) Detach(ctx context.Context, eventID, userID string) error {
	// Idempotent: detaching an absent edge is not an error.
	_, err := r.db.Exec(ctx, `DELETE FROM event_assignments WHERE event_id=$1 AND user_id=$2`, eventID, userID)
	return err
}

func (r *assignmentRepository) ListMembers(ctx context.Context, eventID string, role domain.Role) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.username, u.password_hash, u.phone, u.role, u.created_by, u.sent_credentials, u.expires_at, u.created_at, u.updated_at
        FROM users u
        JOIN event_assignments a ON a.user_id = u.id
        WHERE a.event_id=$1 AND u.role=$2
        ORDER BY u.created_at ASC`

	rows, err := r.db.Query(ctx, query, eventID, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *assignmentRepository) IsAssigned(ctx context.Context, eventID, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM event_assignments WHERE event_id=$1 AND user_id=$2)`

	var assigned bool
	if err := r.db.QueryRow(ctx, query, eventID, userID).Scan(&assigned); err != nil {
		return false, err
	}
	return assigned, nil
}
