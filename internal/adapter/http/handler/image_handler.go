package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/webcarros/backend/internal/adapter/http/middleware"
	"github.com/webcarros/backend/internal/listing/domain"
	"github.com/webcarros/backend/internal/listing/usecase"
)

type ImageHandler struct {
	drafts         *usecase.DraftUsecase
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewImageHandler(drafts *usecase.DraftUsecase, maxUploadBytes int64, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{drafts: drafts, maxUploadBytes: maxUploadBytes, logger: logger}
}

type draftImageResponse struct {
	StorageKey string `json:"storageKey"`
	OwnerID    string `json:"ownerId"`
	PreviewURL string `json:"previewUrl"`
	URL        string `json:"url"`
}

func toDraftImageResponse(img domain.DraftImage) draftImageResponse {
	return draftImageResponse{
		StorageKey: img.StorageKey,
		OwnerID:    img.OwnerID,
		PreviewURL: img.PreviewURL,
		URL:        img.RemoteURL,
	}
}

// HandleUploadImage accepts one multipart file field named "image" and
// stages it in the owner's draft workspace.
func (h *ImageHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read image")
		return
	}

	entry, err := h.drafts.UploadImage(r.Context(), ownerID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedImageType) {
			respondError(w, http.StatusUnsupportedMediaType, "only JPEG and PNG images are accepted")
			return
		}
		h.logger.Error("image upload failed", zap.String("owner_id", ownerID), zap.Error(err))
		respondError(w, http.StatusBadGateway, "image upload failed, try again")
		return
	}

	respondJSON(w, http.StatusCreated, toDraftImageResponse(entry))
}

// HandleDraftImages returns the current staged images.
func (h *ImageHandler) HandleDraftImages(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())
	entries := h.drafts.Entries(ownerID)

	out := make([]draftImageResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toDraftImageResponse(e))
	}
	respondJSON(w, http.StatusOK, out)
}

// HandleRemoveImage deletes a staged image from storage and the workspace.
// The key is the full storage path, URL-encoded by the client.
func (h *ImageHandler) HandleRemoveImage(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())
	key := chi.URLParam(r, "*")

	err := h.drafts.RemoveImage(r.Context(), ownerID, key)
	if err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			respondError(w, http.StatusNotFound, "image not found in draft")
			return
		}
		h.logger.Error("image removal failed",
			zap.String("owner_id", ownerID),
			zap.String("key", key),
			zap.Error(err))
		respondError(w, http.StatusBadGateway, "failed to delete image, try again")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
