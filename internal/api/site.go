package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/viahogar/viahogar-core/internal/contact"
	"github.com/viahogar/viahogar-core/internal/storage"
)

type siteResponse struct {
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

type siteNameRequest struct {
	Name string `json:"name"`
}

type imageRequest struct {
	DataURL string `json:"dataUrl"`
}

// handleGetSite returns the site branding.
func (s *Server) handleGetSite(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, siteResponse{
		Name:    s.app.SiteName(),
		Logo:    s.app.Logo(),
		IsAdmin: s.app.IsAdmin(),
	})
}

// handleSetSiteName renames the site. The name is kept even if saving fails.
func (s *Server) handleSetSiteName(w http.ResponseWriter, r *http.Request) {
	var req siteNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := s.app.SetSiteName(r.Context(), req.Name)
	s.writeResult(w, http.StatusOK, siteResponse{Name: s.app.SiteName(), Logo: s.app.Logo(), IsAdmin: true}, err)
}

// handleSetLogo replaces the custom logo. An empty dataUrl restores the default.
func (s *Server) handleSetLogo(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.app.SetLogo(r.Context(), req.DataURL); err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, siteResponse{Name: s.app.SiteName(), Logo: s.app.Logo(), IsAdmin: true})
}

// handleStoreImage stores an uploaded image and returns the reference to put
// in a document.
func (s *Server) handleStoreImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DataURL == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "dataUrl is required")
		return
	}

	ref, err := s.app.StoreImage(r.Context(), req.DataURL)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"ref": ref})
}

// handleGetBlob serves a stored image as raw bytes.
func (s *Server) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !storage.IsBlobKey(key) {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "unknown image key")
		return
	}

	inline, err := s.app.ResolveImage(r.Context(), key)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	mediaType, data, err := storage.DecodeDataURL(inline)
	if err != nil {
		s.logger.Warn("stored image is not a data URL", "key", key, "error", err)
		writeInternalError(w, "stored image is unreadable")
		return
	}

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write(data)
}

// handleSubmitContact stores a visitor's contact request.
func (s *Server) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var form contact.Form
	if !decodeJSON(w, r, &form) {
		return
	}

	sub, err := s.app.SubmitContact(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil && sub.ID == "" {
		s.writeAppError(w, err)
		return
	}
	s.writeResult(w, http.StatusCreated, sub, err)
}
