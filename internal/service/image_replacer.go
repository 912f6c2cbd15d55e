package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/event-staffing-service/internal/blob"
	apperrors "github.com/spec-kit/event-staffing-service/pkg/util/errorutil"
)

// MaxImageBytes caps event image uploads at 5 MiB.
const MaxImageBytes = 5 * 1024 * 1024

// ImageAction describes what an update request wants done with the
// event image. The zero value means no change.
type ImageAction struct {
	Remove      bool
	Data        []byte
	ContentType string
	Filename    string
}

// None reports whether the action changes anything.
func (a ImageAction) None() bool {
	return !a.Remove && len(a.Data) == 0
}

// ImageReplacer orchestrates image uploads against the object store.
// Uploads run before the relational transaction opens so a failed
// upload never touches committed state; deletes of superseded objects
// run after commit and are best-effort.
type ImageReplacer struct {
	store  blob.Store
	logger *zap.Logger
}

// NewImageReplacer constructs the replacer.
func NewImageReplacer(store blob.Store, logger *zap.Logger) *ImageReplacer {
	return &ImageReplacer{store: store, logger: logger}
}

// Stage validates and uploads a replacement image, returning its URL.
// Returns ("", nil) when the action carries no upload. An upload
// failure surfaces as an upload error and must abort the update before
// any relational write.
func (r *ImageReplacer) Stage(ctx context.Context, action ImageAction) (string, error) {
	if len(action.Data) == 0 {
		return "", nil
	}
	if !strings.HasPrefix(action.ContentType, "image/") {
		return "", apperrors.NewValidationError("invalid file type, only images are allowed", map[string]any{
			"content_type": action.ContentType,
		})
	}
	if len(action.Data) > MaxImageBytes {
		return "", apperrors.NewValidationError("image file too large", map[string]any{
			"max_bytes": MaxImageBytes,
		})
	}

	ext := path.Ext(action.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("events/%s%s", uuid.NewString(), ext)

	url, err := r.store.Put(ctx, key, action.Data, action.ContentType)
	if err != nil {
		return "", apperrors.NewUploadError("image upload failed", err)
	}
	return url, nil
}

// DiscardOld deletes a superseded object. Failures are logged, never
// fatal: the old object is merely orphaned and can be collected out of
// band.
func (r *ImageReplacer) DiscardOld(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := r.store.Delete(ctx, url); err != nil {
		r.logger.Warn("failed to delete superseded image", zap.String("url", url), zap.Error(err))
	}
}
