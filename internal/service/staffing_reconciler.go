package service

import (
	"context"

	"github.com/spec-kit/event-staffing-service/internal/auth"
	"github.com/spec-kit/event-staffing-service/internal/domain"
	"github.com/spec-kit/event-staffing-service/internal/repository"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// StaffingReconciler applies a roster plan for one role group. Every
// write goes through the transaction-scoped store handed in by the
// caller, so a failure anywhere rolls back the whole reconciliation.
type StaffingReconciler struct {
	bcryptCost int
}

// NewStaffingReconciler constructs the reconciler.
func NewStaffingReconciler(bcryptCost int) *StaffingReconciler {
	return &StaffingReconciler{bcryptCost: bcryptCost}
}

// Apply executes the plan against the event. New members get an
// account, a credential shadow and an assignment edge; updated members
// get field changes and a rehash when a new password was supplied;
// detached members lose only their assignment edge.
func (r *StaffingReconciler) Apply(ctx context.Context, tx repository.Store, eventID, ownerID string, role domain.Role, plan RosterPlan) error {
	for _, entry := range plan.Creates {
		hash, err := auth.HashSecret(entry.Password, r.bcryptCost)
		if err != nil {
			return err
		}
		member := &domain.User{
			Username:     entry.Username,
			PasswordHash: hash,
			Phone:        optional(entry.Phone),
			Role:         role,
			CreatedBy:    &ownerID,
		}
		if err := tx.Users().Create(ctx, member); err != nil {
			return apperrors.NewStorageError("create roster member", err)
		}
		if err := tx.Credentials().Upsert(ctx, member.ID, entry.Password); err != nil {
			return apperrors.NewStorageError("store credential shadow", err)
		}
		if err := tx.Assignments().Attach(ctx, eventID, member.ID); err != nil {
			return apperrors.NewStorageError("attach roster member", err)
		}
	}

	for _, update := range plan.Updates {
		member := update.Existing
		member.Username = update.Username
		member.Phone = optional(update.Phone)
		if update.Password != "" {
			hash, err := auth.HashSecret(update.Password, r.bcryptCost)
			if err != nil {
				return err
			}
			member.PasswordHash = hash
			if err := tx.Credentials().Upsert(ctx, member.ID, update.Password); err != nil {
				return apperrors.NewStorageError("rotate credential shadow", err)
			}
		}
		if err := tx.Users().Update(ctx, &member); err != nil {
			return apperrors.NewStorageError("update roster member", err)
		}
	}

	for _, id := range plan.Detaches {
		if err := tx.Assignments().Detach(ctx, eventID, id); err != nil {
			return apperrors.NewStorageError("detach roster member", err)
		}
	}

	return nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
