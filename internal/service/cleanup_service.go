package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/event-staffing-service/internal/repository"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// CleanupService deletes expired owner accounts together with the
// events, staff accounts and side records they provisioned. Each owner
// is removed in its own transaction so one failure does not block the
// rest of the sweep.
type CleanupService struct {
	store  repository.Store
	logger *zap.Logger
}

// NewCleanupService constructs the service.
func NewCleanupService(store repository.Store, logger *zap.Logger) *CleanupService {
	return &CleanupService{store: store, logger: logger}
}

// PurgeExpiredOwners removes owners whose expiry has passed and
// returns how many were deleted.
func (s *CleanupService) PurgeExpiredOwners(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.store.Users().ListExpiredOwners(ctx, now)
	if err != nil {
		return 0, apperrors.MapError(err)
	}

	removed := 0
	for i := range expired {
		owner := expired[i]
		err := s.store.RunInTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
			// Events cascade their assignments, revisions and
			// donations; staff accounts cascade their shadows.
			if err := tx.Events().DeleteByOwner(ctx, owner.ID); err != nil {
				return err
			}
			if err := tx.Users().DeleteByCreator(ctx, owner.ID); err != nil {
				return err
			}
			return tx.Users().Delete(ctx, owner.ID)
		})
		if err != nil {
			s.logger.Error("failed to purge expired owner",
				zap.String("owner_id", owner.ID), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("purged expired owners", zap.Int("count", removed))
	}
	return removed, nil
}
