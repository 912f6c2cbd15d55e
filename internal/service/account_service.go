package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/event-staffing-service/internal/auth"
	"github.com/spec-kit/event-staffing-service/internal/domain"
	"github.com/spec-kit/event-staffing-service/internal/repository"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// AccountService covers admin owner provisioning and the owner-facing
// staff roster views.
type AccountService struct {
	store      repository.Store
	bcryptCost int
}

// NewAccountService constructs the service.
func NewAccountService(store repository.Store, bcryptCost int) *AccountService {
	return &AccountService{store: store, bcryptCost: bcryptCost}
}

// ProvisionedCredentials returns the plaintext secret exactly once at
// provisioning time so the admin can deliver it out of band.
type ProvisionedCredentials struct {
	User     *domain.User
	Password string
}

// StaffRosterEntry is an owner's provisioned staff member together
// with the shadow secret and first assigned event.
type StaffRosterEntry struct {
	User       domain.User
	Secret     string
	EventID    string
	EventTitle string
}

// ProvisionOwner creates an OWNER account with an optional expiry.
// Admin only.
func (s *AccountService) ProvisionOwner(ctx context.Context, actor *domain.User, username, password, phone string, expiresAt *time.Time) (*ProvisionedCredentials, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(phone) == "" {
		return nil, apperrors.NewValidationError("username and phone are required", nil)
	}
	if existing, err := s.store.Users().GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, apperrors.NewConflict("username already exists", map[string]any{"username": username})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashSecret(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	owner := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Phone:        optional(phone),
		Role:         domain.RoleOwner,
		CreatedBy:    &actor.ID,
		ExpiresAt:    expiresAt,
	}
	if err := s.store.Users().Create(ctx, owner); err != nil {
		return nil, apperrors.NewStorageError("create owner account", err)
	}
	return &ProvisionedCredentials{User: owner, Password: password}, nil
}

// ListOwners returns all owner accounts. Admin only.
func (s *AccountService) ListOwners(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}
	owners, err := s.store.Users().ListByRole(ctx, domain.RoleOwner)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return owners, nil
}

// ListProvisionedStaff returns the staff accounts the owner created,
// with shadow secrets and the first event each is assigned to.
func (s *AccountService) ListProvisionedStaff(ctx context.Context, actor *domain.User) ([]StaffRosterEntry, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}

	staff, err := s.store.Users().ListByCreator(ctx, actor.ID, domain.StaffRoles)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := make([]StaffRosterEntry, 0, len(staff))
	for i := range staff {
		entry := StaffRosterEntry{User: staff[i]}
		if shadow, err := s.store.Credentials().GetByUserID(ctx, staff[i].ID); err == nil {
			entry.Secret = shadow.Secret
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		assigned, err := s.store.Events().ListByAssignee(ctx, staff[i].ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if len(assigned) > 0 {
			entry.EventID = assigned[0].ID
			entry.EventTitle = assigned[0].Title
		}
		result = append(result, entry)
	}
	return result, nil
}

// MarkCredentialsSent records whether a provisioned staff member's
// credentials have been delivered. The staff member must have been
// provisioned by the acting owner.
func (s *AccountService) MarkCredentialsSent(ctx context.Context, actor *domain.User, staffID string, sent bool) (*domain.User, error) {
	if err := requireOwner(actor); err != nil {
		return nil, err
	}

	staff, err := s.store.Users().GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}
	if staff.CreatedBy == nil || *staff.CreatedBy != actor.ID {
		return nil, apperrors.NewForbidden("staff member not provisioned by caller")
	}

	staff.SentCredentials = sent
	if err := s.store.Users().Update(ctx, staff); err != nil {
		return nil, apperrors.NewStorageError("update staff member", err)
	}
	return staff, nil
}
