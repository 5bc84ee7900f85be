package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/raghavk/vidtube/internal/api/handlers"
	"github.com/raghavk/vidtube/internal/api/middleware"
	"github.com/raghavk/vidtube/internal/config"
	"github.com/raghavk/vidtube/internal/media"
	"github.com/raghavk/vidtube/internal/service"
)

func NewRouter(services *service.Services, mediaStore media.Store, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS(cfg.CORSOrigin))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, mediaStore, cfg)
	accountHandler := handlers.NewAccountHandler(services.Auth, mediaStore, cfg)
	channelHandler := handlers.NewChannelHandler(services.Profile)

	authn := middleware.Auth(services.Auth, services.Token)
	optionalAuthn := middleware.OptionalAuth(services.Auth, services.Token)

	r.Route("/api/v1/users", func(r chi.Router) {
		// Public routes. Register carries file uploads, so it gets the
		// upload cap instead of the JSON body cap.
		r.With(middleware.MaxBody(cfg.UploadLimit)).Post("/register", authHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBody(cfg.BodyLimit))
			r.Post("/login", authHandler.Login)
			r.Post("/refresh-token", authHandler.Refresh)
		})

		// Optional auth: a signed-in viewer affects isSubscribed only.
		r.With(optionalAuthn).Get("/channel/{username}", channelHandler.GetProfile)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Group(func(r chi.Router) {
				r.Use(middleware.MaxBody(cfg.BodyLimit))
				r.Post("/logout", authHandler.Logout)
				r.Post("/change-password", authHandler.ChangePassword)
				r.Get("/me", authHandler.Me)
				r.Patch("/account", accountHandler.Update)
				r.Get("/watch-history", channelHandler.WatchHistory)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.MaxBody(cfg.UploadLimit))
				r.Patch("/avatar", accountHandler.UpdateAvatar)
				r.Patch("/cover-image", accountHandler.UpdateCoverImage)
			})
		})
	})

	return r
}
