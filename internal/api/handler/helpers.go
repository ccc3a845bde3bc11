package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	mw "github.com/edvin/clinicguard/internal/api/middleware"
	"github.com/edvin/clinicguard/internal/api/response"
	"github.com/edvin/clinicguard/internal/model"
)

// currentUser returns the session user. It writes a 401 when the route was
// mounted without the auth middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user := mw.GetUser(r.Context())
	if user == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return user, true
}

// writeError logs a failed operation and writes the mapped error response.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")
	response.WriteServiceError(w, err)
}
