package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)
	})

	// routes for authenticated users
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/settings/{key}", h.getSetting)
		r.Put("/api/user/settings/{key}", h.setUserSetting)
		r.Delete("/api/user/settings/{key}", h.deleteUserSetting)
	})

	// admin-only routes
	router.Group(func(r chi.Router) {
		r.Use(h.auth, h.adminOnly)

		r.Get("/api/admin/settings", h.listSettings)
		r.Put("/api/admin/settings/{key}", h.putSetting)
		r.Delete("/api/admin/settings/{key}", h.deleteSetting)
		r.Post("/api/admin/settings/{key}/invalidate", h.invalidateSetting)
		r.Put("/api/admin/users/{userID}/settings/{key}", h.putUserOverride)
		r.Delete("/api/admin/users/{userID}/settings/{key}", h.deleteUserOverride)
	})

	return router
}
