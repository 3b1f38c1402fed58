package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/viahogar/viahogar-core/internal/element"
)

type resolveRequest struct {
	Ref element.Ref `json:"ref"`
}

type updateElementRequest struct {
	Ref   element.Ref   `json:"ref"`
	Patch element.Patch `json:"patch"`
}

type selectRequest struct {
	PropertyID string      `json:"propertyId"`
	Ref        element.Ref `json:"ref"`
}

type updateSelectionRequest struct {
	Patch element.Patch `json:"patch"`
}

type selectionResponse struct {
	Ref       element.Ref       `json:"ref"`
	Selection element.Selection `json:"selection"`
}

// handleResolveElement returns the element a reference points at.
func (s *Server) handleResolveElement(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := s.app.Property(chi.URLParam(r, "id"))
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	sel, ok := element.Resolve(p, req.Ref)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "element not found")
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

// handleUpdateElement applies a partial update to an element.
func (s *Server) handleUpdateElement(w http.ResponseWriter, r *http.Request) {
	var req updateElementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Patch.Empty() {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "patch sets no field")
		return
	}

	sel, err := s.app.UpdateElement(r.Context(), chi.URLParam(r, "id"), req.Ref, req.Patch)
	if err != nil && sel.Kind == "" {
		s.writeAppError(w, err)
		return
	}
	s.writeResult(w, http.StatusOK, sel, err)
}

// handleGetSelection returns the editor selection.
func (s *Server) handleGetSelection(w http.ResponseWriter, _ *http.Request) {
	ref, sel, ok := s.app.SelectedElement()
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "nothing selected")
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse{Ref: ref, Selection: sel})
}

// handleSelect opens a property and selects one of its elements.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.app.SelectProperty(req.PropertyID); err != nil {
		s.writeAppError(w, err)
		return
	}
	sel, err := s.app.SelectElement(req.Ref)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selectionResponse{Ref: req.Ref, Selection: sel})
}

// handleUpdateSelection applies a partial update to the selected element.
func (s *Server) handleUpdateSelection(w http.ResponseWriter, r *http.Request) {
	var req updateSelectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Patch.Empty() {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "patch sets no field")
		return
	}

	sel, err := s.app.UpdateSelectedElement(r.Context(), req.Patch)
	if err != nil && sel.Kind == "" {
		s.writeAppError(w, err)
		return
	}
	s.writeResult(w, http.StatusOK, sel, err)
}

// handleClearSelection drops the selection.
func (s *Server) handleClearSelection(w http.ResponseWriter, _ *http.Request) {
	s.app.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}
