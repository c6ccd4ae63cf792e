package router

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/webcarros/backend/internal/adapter/http/handler"
	"github.com/webcarros/backend/internal/adapter/http/middleware"
)

// New wires the public browse routes, the auth routes and the JWT-gated
// dashboard routes.
func New(users *handler.UserHandler, listings *handler.ListingHandler, images *handler.ImageHandler, sessions middleware.SessionChecker, jwtSecret string, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger(logger))

	r.Post("/api/auth/register", users.Register)
	r.Post("/api/auth/login", users.Login)

	r.Get("/api/listings", listings.HandleSearchListings)
	r.Get("/api/listings/{id}", listings.HandleGetListing)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, sessions, logger))

		r.Post("/api/auth/logout", users.Logout)

		r.Get("/api/dashboard/listings", listings.HandleOwnerListings)
		r.Post("/api/dashboard/listings", listings.HandleCreateListing)
		r.Delete("/api/dashboard/listings/{id}", listings.HandleDeleteListing)

		r.Post("/api/dashboard/images", images.HandleUploadImage)
		r.Get("/api/dashboard/images", images.HandleDraftImages)
		r.Delete("/api/dashboard/images/*", images.HandleRemoveImage)
	})

	return r
}
