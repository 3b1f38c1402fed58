package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/viahogar/viahogar-core/internal/contact"
	"github.com/viahogar/viahogar-core/internal/geo"
	"github.com/viahogar/viahogar-core/internal/property"
	"github.com/viahogar/viahogar-core/internal/site"
	"github.com/viahogar/viahogar-core/internal/storage"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest           = "bad_request"
	ErrCodeNotFound             = "not_found"
	ErrCodeUnauthorized         = "unauthorised"
	ErrCodeForbidden            = "forbidden"
	ErrCodeConflict             = "conflict"
	ErrCodeInternal             = "internal_error"
	ErrCodeValidation           = "validation_error"
	ErrCodeGeocoding            = "geocoding_failed"
	ErrCodeStorageQuotaExceeded = "storage_quota_exceeded"
	ErrCodeUnavailable          = "unavailable"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeAppError maps a controller error to a response. A quota failure is
// 507: the change is applied in memory but was not saved.
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError && status != http.StatusInsufficientStorage {
		s.logger.Error("request failed", "error", err)
		writeError(w, status, code, "internal server error")
		return
	}
	writeError(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, site.ErrStorageQuotaExceeded):
		return http.StatusInsufficientStorage, ErrCodeStorageQuotaExceeded
	case errors.Is(err, site.ErrAdminRequired):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, site.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case errors.Is(err, site.ErrPropertyNotFound),
		errors.Is(err, site.ErrSectionNotFound),
		errors.Is(err, site.ErrElementNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, site.ErrNoSelection), errors.Is(err, site.ErrNoPendingDelete):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, site.ErrNotLoaded):
		return http.StatusServiceUnavailable, ErrCodeUnavailable
	case errors.Is(err, geo.ErrLookup):
		return http.StatusUnprocessableEntity, ErrCodeGeocoding
	case errors.Is(err, contact.ErrInvalidForm),
		errors.Is(err, property.ErrUnknownSectionType),
		errors.Is(err, property.ErrInvalidProperty),
		errors.Is(err, storage.ErrInvalidDataURL):
		return http.StatusBadRequest, ErrCodeValidation
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// writeResult writes v with status, or the error when err is set. A quota
// error still carries the applied result so the client can keep rendering it.
func (s *Server) writeResult(w http.ResponseWriter, status int, v any, err error) {
	if err == nil {
		writeJSON(w, status, v)
		return
	}
	if errors.Is(err, site.ErrStorageQuotaExceeded) && v != nil {
		writeJSON(w, http.StatusInsufficientStorage, map[string]any{
			"status":  http.StatusInsufficientStorage,
			"code":    ErrCodeStorageQuotaExceeded,
			"message": err.Error(),
			"result":  v,
		})
		return
	}
	s.writeAppError(w, err)
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}
