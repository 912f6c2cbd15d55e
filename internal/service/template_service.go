package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/event-staffing-service/internal/domain"
	"github.com/spec-kit/event-staffing-service/internal/repository"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

const templateCacheTTL = 10 * time.Minute

// TemplateService manages the append-only message template history.
// Revisions are immutable; the read path answers with the latest one.
type TemplateService struct {
	store  repository.Store
	cache  *redis.Client
	logger *zap.Logger
}

// NewTemplateService constructs the service. cache may be nil.
func NewTemplateService(store repository.Store, cache *redis.Client, logger *zap.Logger) *TemplateService {
	return &TemplateService{store: store, cache: cache, logger: logger}
}

// AppendRevision inserts a new revision when content is non-empty and
// reports whether one was written. A no-op on empty content. The cache
// is left untouched here: tx may still roll back, and dropping the key
// mid-transaction lets a concurrent read re-cache pre-commit content.
// Callers invalidate via Invalidate after the transaction commits.
func (s *TemplateService) AppendRevision(ctx context.Context, tx repository.Store, eventID, authorID, content string) (bool, error) {
	if strings.TrimSpace(content) == "" {
		return false, nil
	}
	revision := &domain.TemplateRevision{
		EventID:   eventID,
		Content:   content,
		CreatedBy: authorID,
	}
	if err := tx.Templates().Append(ctx, revision); err != nil {
		return false, apperrors.NewStorageError("append template revision", err)
	}
	return true, nil
}

// Invalidate drops the cached current template. Call it only after the
// transaction that appended the revision has committed.
func (s *TemplateService) Invalidate(ctx context.Context, eventID string) {
	s.invalidate(ctx, eventID)
}

// Current returns the event's latest template content, or an empty
// string when no revision exists.
func (s *TemplateService) Current(ctx context.Context, eventID string) (string, error) {
	if cached, ok := s.cached(ctx, eventID); ok {
		return cached, nil
	}

	revision, err := s.store.Templates().Latest(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.MapError(err)
	}

	s.cacheSet(ctx, eventID, revision.Content)
	return revision.Content, nil
}

// History lists all revisions for an event, oldest first.
func (s *TemplateService) History(ctx context.Context, eventID string) ([]domain.TemplateRevision, error) {
	revisions, err := s.store.Templates().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return revisions, nil
}

func templateCacheKey(eventID string) string {
	return fmt.Sprintf("event:%s:sms_template", eventID)
}

func (s *TemplateService) cached(ctx context.Context, eventID string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	val, err := s.cache.Get(ctx, templateCacheKey(eventID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("template cache read failed", zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (s *TemplateService) cacheSet(ctx context.Context, eventID, content string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, templateCacheKey(eventID), content, templateCacheTTL).Err(); err != nil {
		s.logger.Debug("template cache write failed", zap.Error(err))
	}
}

func (s *TemplateService) invalidate(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, templateCacheKey(eventID)).Err(); err != nil {
		s.logger.Debug("template cache invalidation failed", zap.Error(err))
	}
}
