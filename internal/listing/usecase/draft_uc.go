package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webcarros/backend/internal/listing/domain"
)

// Storage is the object-storage port the draft workspace uploads into.
type Storage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	DownloadURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

var acceptedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// draft holds one owner's staged images, keyed by storage key so that
// concurrent upload completions append safely in whatever order they land.
type draft struct {
	entries map[string]domain.DraftImage
	order   []string
}

// DraftUsecase owns the per-user draft workspaces and coordinates image
// uploads and removals against object storage.
type DraftUsecase struct {
	storage Storage
	logger  *zap.Logger

	mu     sync.Mutex
	drafts map[string]*draft
}

func NewDraftUsecase(storage Storage, logger *zap.Logger) *DraftUsecase {
	return &DraftUsecase{
		storage: storage,
		logger:  logger,
		drafts:  make(map[string]*draft),
	}
}

// UploadImage validates the declared media type, uploads the bytes under a
// fresh key and appends the resulting entry to the owner's workspace. The
// upload itself runs outside the workspace lock; entries are appended in
// completion order.
func (uc *DraftUsecase) UploadImage(ctx context.Context, ownerID, filename, contentType string, data []byte) (domain.DraftImage, error) {
	if !acceptedImageTypes[contentType] {
		uc.logger.Warn("rejected image upload",
			zap.String("owner_id", ownerID),
			zap.String("content_type", contentType))
		return domain.DraftImage{}, domain.ErrUnsupportedImageType
	}

	key := fmt.Sprintf("images/%s/%s%s", ownerID, uuid.New().String(), filepath.Ext(filename))

	if err := uc.storage.Upload(ctx, key, contentType, data); err != nil {
		uc.logger.Error("image upload failed",
			zap.String("owner_id", ownerID),
			zap.String("key", key),
			zap.Error(err))
		return domain.DraftImage{}, fmt.Errorf("upload image %s: %w", key, err)
	}

	url, err := uc.storage.DownloadURL(ctx, key)
	if err != nil {
		uc.logger.Error("failed to resolve image URL",
			zap.String("owner_id", ownerID),
			zap.String("key", key),
			zap.Error(err))
		return domain.DraftImage{}, fmt.Errorf("resolve url for %s: %w", key, err)
	}

	entry := domain.DraftImage{
		StorageKey: key,
		OwnerID:    ownerID,
		PreviewURL: url,
		RemoteURL:  url,
	}

	uc.mu.Lock()
	d, ok := uc.drafts[ownerID]
	if !ok {
		d = &draft{entries: make(map[string]domain.DraftImage)}
		uc.drafts[ownerID] = d
	}
	if _, exists := d.entries[key]; !exists {
		d.order = append(d.order, key)
	}
	d.entries[key] = entry
	uc.mu.Unlock()

	uc.logger.Info("image added to draft",
		zap.String("owner_id", ownerID),
		zap.String("key", key))
	return entry, nil
}

// RemoveImage deletes the stored object and drops the entry from the
// workspace. If the storage deletion fails the entry is retained so the
// user can retry.
func (uc *DraftUsecase) RemoveImage(ctx context.Context, ownerID, storageKey string) error {
	uc.mu.Lock()
	d, ok := uc.drafts[ownerID]
	if ok {
		_, ok = d.entries[storageKey]
	}
	uc.mu.Unlock()
	if !ok {
		return domain.ErrImageNotFound
	}

	if err := uc.storage.Delete(ctx, storageKey); err != nil {
		uc.logger.Error("failed to delete image from storage",
			zap.String("owner_id", ownerID),
			zap.String("key", storageKey),
			zap.Error(err))
		return fmt.Errorf("delete image %s: %w", storageKey, err)
	}

	uc.mu.Lock()
	delete(d.entries, storageKey)
	for i, k := range d.order {
		if k == storageKey {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	uc.mu.Unlock()

	uc.logger.Info("image removed from draft",
		zap.String("owner_id", ownerID),
		zap.String("key", storageKey))
	return nil
}

// Entries returns a snapshot of the owner's staged images in the order they
// finished uploading.
func (uc *DraftUsecase) Entries(ownerID string) []domain.DraftImage {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	d, ok := uc.drafts[ownerID]
	if !ok {
		return nil
	}
	out := make([]domain.DraftImage, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.entries[k])
	}
	return out
}

// Clear empties the owner's workspace. Called after a successful submit.
func (uc *DraftUsecase) Clear(ownerID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.drafts, ownerID)
}
