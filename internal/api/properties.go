package api

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/viahogar/viahogar-core/internal/property"
)

type createPropertyRequest struct {
	Address string `json:"address"`
}

type addSectionRequest struct {
	Type  property.SectionType `json:"type"`
	Index *int                 `json:"index,omitempty"`
}

// handleListProperties returns the collection in display order.
func (s *Server) handleListProperties(w http.ResponseWriter, _ *http.Request) {
	props := s.app.Properties()
	writeJSON(w, http.StatusOK, map[string]any{
		"properties": props,
		"count":      len(props),
	})
}

// handleGetProperty returns one property.
func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := s.app.Property(chi.URLParam(r, "id"))
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleCreateProperty geocodes the address and creates a property page.
func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Address == "" {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "address is required")
		return
	}

	p, err := s.app.CreateProperty(r.Context(), req.Address)
	if err != nil && p.ID == "" {
		s.writeAppError(w, err)
		return
	}
	s.writeResult(w, http.StatusCreated, p, err)
}

// handleUpdateProperty replaces a property. The id comes from the path.
func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	var p property.Property
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = chi.URLParam(r, "id")

	updated, err := s.app.UpdateProperty(r.Context(), p)
	if err != nil && updated.ID == "" {
		s.writeAppError(w, err)
		return
	}
	s.writeResult(w, http.StatusOK, updated, err)
}

// handleDeleteProperty runs the two-step deletion. Without confirm=true it
// only marks the property; with it the pending deletion of that property is
// carried out. cancel=true drops the pending deletion.
func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	switch {
	case q.Get("cancel") == "true":
		s.app.CancelDelete()
		w.WriteHeader(http.StatusNoContent)

	case q.Get("confirm") == "true":
		if s.app.PendingDelete() != id {
			writeError(w, http.StatusConflict, ErrCodeConflict, "deletion of this property has not been requested")
			return
		}
		if err := s.app.ConfirmDelete(r.Context()); err != nil {
			s.writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		if err := s.app.RequestDelete(id); err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"pending_delete": id})
	}
}

// handleAddSection inserts a section. A missing index appends.
func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	var req addSectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	index := math.MaxInt
	if req.Index != nil {
		index = *req.Index
	}

	sec, err := s.app.AddSection(r.Context(), chi.URLParam(r, "id"), index, req.Type)
	if err != nil && sec.ID == "" {
		s.writeAppError(w, err)
		return
	}
	s.writeResult(w, http.StatusCreated, sec, err)
}

// handleUpdateSection replaces a section. The id comes from the path.
func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var sec property.Section
	if !decodeJSON(w, r, &sec) {
		return
	}
	sec.ID = chi.URLParam(r, "sectionId")

	if err := s.app.UpdateSection(r.Context(), chi.URLParam(r, "id"), sec); err != nil {
		s.writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteSection removes a section.
func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DeleteSection(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "sectionId")); err != nil {
		s.writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListSubmissions returns the contact requests for a property.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.app.Property(id); err != nil {
		s.writeAppError(w, err)
		return
	}
	subs, err := s.app.Submissions(id)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"count":       len(subs),
	})
}

