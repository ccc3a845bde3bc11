package handler

import (
	"net/http"

	"github.com/edvin/clinicguard/internal/api/request"
	"github.com/edvin/clinicguard/internal/api/response"
	"github.com/edvin/clinicguard/internal/security"
)

type Actions struct {
	svc *security.ActionDispatcher
}

func NewActions(services *security.Services) *Actions {
	return &Actions{svc: services.Actions}
}

func (h *Actions) Dispatch(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.DispatchAction
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Dispatch(r.Context(), user, req.Action, req.DeviceID)
	if err != nil {
		writeError(w, r, "dispatch "+req.Action, err)
		return
	}
	writeActionResult(w, result)
}
