package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edvin/clinicguard/internal/acronis"
	"github.com/edvin/clinicguard/internal/security"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteServiceError maps a component error onto a status code. Errors that
// are not domain errors surface as 500 with their message.
func WriteServiceError(w http.ResponseWriter, err error) {
	if e, ok := security.AsError(err); ok {
		WriteJSON(w, StatusFor(e), ErrorResponse{Error: e.Message, Code: e.Code})
		return
	}
	if errors.Is(err, acronis.ErrNotConfigured) {
		WriteError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	WriteError(w, http.StatusInternalServerError, err.Error())
}

func StatusFor(e *security.Error) int {
	switch e.Kind {
	case security.KindInvalid:
		return http.StatusBadRequest
	case security.KindConflict:
		if e.Code == security.CodeNameConflict {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case security.KindNotFound:
		return http.StatusNotFound
	case security.KindConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
