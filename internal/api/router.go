package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/health", s.handleHealth)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/site", s.handleGetSite)
		r.Get("/properties", s.handleListProperties)
		r.Get("/properties/{id}", s.handleGetProperty)
		r.Post("/properties/{id}/elements/resolve", s.handleResolveElement)
		r.Post("/properties/{id}/contact", s.handleSubmitContact)
		r.Get("/blobs/{key}", s.handleGetBlob)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout", s.handleLogout)

			r.Put("/site/name", s.handleSetSiteName)
			r.Put("/site/logo", s.handleSetLogo)
			r.Post("/images", s.handleStoreImage)

			r.Post("/properties", s.handleCreateProperty)
			r.Put("/properties/{id}", s.handleUpdateProperty)
			r.Delete("/properties/{id}", s.handleDeleteProperty)
			r.Get("/properties/{id}/submissions", s.handleListSubmissions)
			r.Patch("/properties/{id}/elements", s.handleUpdateElement)
			r.Post("/properties/{id}/sections", s.handleAddSection)
			r.Put("/properties/{id}/sections/{sectionId}", s.handleUpdateSection)
			r.Delete("/properties/{id}/sections/{sectionId}", s.handleDeleteSection)

			r.Get("/selection", s.handleGetSelection)
			r.Put("/selection", s.handleSelect)
			r.Patch("/selection", s.handleUpdateSelection)
			r.Delete("/selection", s.handleClearSelection)
		})
	})

	return r
}

// handleHealth reports the server status and the state of optional components.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	components := make(map[string]string, len(s.health))
	for name, hc := range s.health {
		if err := hc.HealthCheck(r.Context()); err != nil {
			components[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}
	if !s.app.Loaded() {
		status = http.StatusServiceUnavailable
	}

	body := map[string]any{
		"status":     "ok",
		"version":    s.version,
		"loaded":     s.app.Loaded(),
		"components": components,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	writeJSON(w, status, body)
}
