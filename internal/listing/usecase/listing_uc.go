package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/webcarros/backend/internal/listing/domain"
)

// ListingCache is a read-through cache for listing lookups. A (nil, nil)
// return means cache miss.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type Mailer interface {
	SendListingCreatedEmail(toEmail, listingName string) error
}

const (
	SubjectListingCreated = "listing.created"
	SubjectListingDeleted = "listing.deleted"
)

type ListingUsecase struct {
	repo      domain.ListingRepository
	drafts    *DraftUsecase
	storage   Storage
	cache     ListingCache
	publisher EventPublisher
	mailer    Mailer
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewListingUsecase(repo domain.ListingRepository, drafts *DraftUsecase, storage Storage, cache ListingCache, publisher EventPublisher, mailer Mailer, logger *zap.Logger) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		drafts:    drafts,
		storage:   storage,
		cache:     cache,
		publisher: publisher,
		mailer:    mailer,
		validate:  NewFormValidator(),
		logger:    logger,
	}
}

// CreateListing validates the form, requires a non-empty image set and
// persists exactly one listing document. On success the owner's draft
// workspace is cleared; on persistence failure it is left untouched so the
// user can retry.
func (uc *ListingUsecase) CreateListing(ctx context.Context, ownerID, ownerName, ownerEmail string, form ListingForm) (*domain.Listing, error) {
	if err := uc.validate.Struct(form); err != nil {
		uc.logger.Warn("listing form rejected", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidListingData, err)
	}

	images := uc.drafts.Entries(ownerID)
	if len(images) == 0 {
		uc.logger.Warn("submit without images", zap.String("owner_id", ownerID))
		return nil, domain.ErrNoImages
	}

	listing := &domain.Listing{
		OwnerID:     ownerID,
		OwnerName:   ownerName,
		Name:        strings.ToUpper(form.Name),
		Model:       form.Model,
		Year:        form.Year,
		Mileage:     form.Mileage,
		Price:       form.Price,
		City:        form.City,
		Phone:       form.Phone,
		Description: form.Description,
		Images:      stripPreviews(images),
		CreatedAt:   time.Now(),
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("failed to persist listing", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	uc.drafts.Clear(ownerID)

	if err := uc.publisher.Publish(ctx, SubjectListingCreated, listing); err != nil {
		uc.logger.Error("failed to publish listing.created", zap.String("listing_id", listing.ID), zap.Error(err))
	}
	if uc.mailer != nil && ownerEmail != "" {
		if err := uc.mailer.SendListingCreatedEmail(ownerEmail, listing.Name); err != nil {
			uc.logger.Error("failed to send listing-created email", zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}

	uc.logger.Info("listing created",
		zap.String("listing_id", listing.ID),
		zap.String("owner_id", ownerID),
		zap.Int("images", len(listing.Images)))
	return listing, nil
}

// GetListing reads through the cache. Cache failures degrade to repository
// reads.
func (uc *ListingUsecase) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	cached, err := uc.cache.GetListing(ctx, id)
	if err != nil {
		uc.logger.Warn("listing cache read failed", zap.String("listing_id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return nil, domain.ErrListingNotFound
		}
		uc.logger.Error("failed to fetch listing", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("listing cache write failed", zap.String("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

// SearchListings returns listings matching the name filter, newest first.
func (uc *ListingUsecase) SearchListings(ctx context.Context, search string) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindByFilter(ctx, domain.Filter{Search: search})
	if err != nil {
		uc.logger.Error("failed to search listings", zap.String("search", search), zap.Error(err))
		return nil, err
	}
	return listings, nil
}

// ListingsByOwner backs the dashboard page.
func (uc *ListingUsecase) ListingsByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	listings, err := uc.repo.FindByFilter(ctx, domain.Filter{OwnerID: ownerID})
	if err != nil {
		uc.logger.Error("failed to fetch owner listings", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	return listings, nil
}

// DeleteListing removes the document and its stored images. Only the owner
// may delete. Image deletions are best effort; an orphaned object is
// preferable to a listing that points at deleted images.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, id, ownerID string) error {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.OwnerID != ownerID {
		uc.logger.Warn("forbidden listing delete",
			zap.String("listing_id", id),
			zap.String("owner_id", listing.OwnerID),
			zap.String("caller_id", ownerID))
		return domain.ErrForbidden
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Error("failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		return err
	}

	for _, img := range listing.Images {
		if err := uc.storage.Delete(ctx, img.StorageKey); err != nil {
			uc.logger.Error("failed to delete listing image",
				zap.String("listing_id", id),
				zap.String("key", img.StorageKey),
				zap.Error(err))
		}
	}

	if err := uc.cache.DeleteListing(ctx, id); err != nil {
		uc.logger.Warn("listing cache invalidation failed", zap.String("listing_id", id), zap.Error(err))
	}
	if err := uc.publisher.Publish(ctx, SubjectListingDeleted, map[string]string{"id": id}); err != nil {
		uc.logger.Error("failed to publish listing.deleted", zap.String("listing_id", id), zap.Error(err))
	}

	uc.logger.Info("listing deleted", zap.String("listing_id", id), zap.String("owner_id", ownerID))
	return nil
}

func stripPreviews(images []domain.DraftImage) []domain.ListingImage {
	out := make([]domain.ListingImage, 0, len(images))
	for _, img := range images {
		out = append(out, domain.ListingImage{
			StorageKey: img.StorageKey,
			OwnerID:    img.OwnerID,
			RemoteURL:  img.RemoteURL,
		})
	}
	return out
}
