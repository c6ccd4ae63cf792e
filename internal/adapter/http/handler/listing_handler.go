package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/webcarros/backend/internal/adapter/http/middleware"
	"github.com/webcarros/backend/internal/listing/domain"
	listingusecase "github.com/webcarros/backend/internal/listing/usecase"
	userusecase "github.com/webcarros/backend/internal/user/usecase"
)

type ListingHandler struct {
	listings *listingusecase.ListingUsecase
	users    *userusecase.UserUsecase
	logger   *zap.Logger
}

func NewListingHandler(listings *listingusecase.ListingUsecase, users *userusecase.UserUsecase, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, users: users, logger: logger}
}

type imageResponse struct {
	StorageKey string `json:"storageKey"`
	OwnerID    string `json:"ownerId"`
	URL        string `json:"url"`
}

type listingResponse struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	OwnerName   string          `json:"ownerName"`
	Name        string          `json:"name"`
	Model       string          `json:"model"`
	Year        string          `json:"year"`
	Mileage     string          `json:"km"`
	Price       string          `json:"price"`
	City        string          `json:"city"`
	Phone       string          `json:"whatsapp"`
	Description string          `json:"description"`
	Images      []imageResponse `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	images := make([]imageResponse, 0, len(l.Images))
	for _, img := range l.Images {
		images = append(images, imageResponse{
			StorageKey: img.StorageKey,
			OwnerID:    img.OwnerID,
			URL:        img.RemoteURL,
		})
	}
	return listingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		OwnerName:   l.OwnerName,
		Name:        l.Name,
		Model:       l.Model,
		Year:        l.Year,
		Mileage:     l.Mileage,
		Price:       l.Price,
		City:        l.City,
		Phone:       l.Phone,
		Description: l.Description,
		Images:      images,
		CreatedAt:   l.CreatedAt,
	}
}

func toListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

// HandleSearchListings backs the home page: all listings, optionally
// filtered by name.
func (h *ListingHandler) HandleSearchListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.SearchListings(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("search listings failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to search listings")
		return
	}
	respondJSON(w, http.StatusOK, toListingResponses(listings))
}

// HandleGetListing backs the car detail page.
func (h *ListingHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.listings.GetListing(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			respondError(w, http.StatusNotFound, "listing not found")
			return
		}
		h.logger.Error("get listing failed", zap.String("id", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to get listing")
		return
	}
	respondJSON(w, http.StatusOK, toListingResponse(listing))
}

// HandleOwnerListings backs the dashboard page.
func (h *ListingHandler) HandleOwnerListings(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())
	listings, err := h.listings.ListingsByOwner(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("owner listings failed", zap.String("owner_id", ownerID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list your listings")
		return
	}
	respondJSON(w, http.StatusOK, toListingResponses(listings))
}

// HandleCreateListing submits the current draft: form fields in the body,
// images from the owner's draft workspace.
func (h *ListingHandler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())
	ownerName := middleware.UserName(r.Context())

	var form listingusecase.ListingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ownerEmail := ""
	if profile, err := h.users.GetProfile(r.Context(), ownerID); err == nil {
		ownerEmail = profile.Email
	}

	listing, err := h.listings.CreateListing(r.Context(), ownerID, ownerName, ownerEmail, form)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidListingData):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrNoImages):
			respondError(w, http.StatusUnprocessableEntity, "upload at least one image before submitting")
		default:
			h.logger.Error("create listing failed", zap.String("owner_id", ownerID), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to create listing")
		}
		return
	}

	respondJSON(w, http.StatusCreated, toListingResponse(listing))
}

func (h *ListingHandler) HandleDeleteListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ownerID := middleware.UserID(r.Context())

	err := h.listings.DeleteListing(r.Context(), id, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrListingNotFound):
			respondError(w, http.StatusNotFound, "listing not found")
		case errors.Is(err, domain.ErrForbidden):
			respondError(w, http.StatusForbidden, "only the owner can delete a listing")
		default:
			h.logger.Error("delete listing failed", zap.String("id", id), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "failed to delete listing")
		}
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
