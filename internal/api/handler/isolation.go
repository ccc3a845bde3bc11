package handler

import (
	"net/http"

	"github.com/edvin/clinicguard/internal/api/request"
	"github.com/edvin/clinicguard/internal/api/response"
	"github.com/edvin/clinicguard/internal/security"
)

type Isolation struct {
	svc *security.IsolationController
}

func NewIsolation(services *security.Services) *Isolation {
	return &Isolation{svc: services.Isolation}
}

func (h *Isolation) Status(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	deviceID, err := request.RequireQuery(r, "deviceId")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.svc.GetStatus(r.Context(), user, deviceID)
	if err != nil {
		writeError(w, r, "get isolation status", err)
		return
	}
	response.WriteJSON(w, http.StatusOK, status)
}

func (h *Isolation) Set(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.SetIsolation
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.SetIsolation(r.Context(), user, req.DeviceID, req.Action, req.Reason)
	if err != nil {
		writeError(w, r, "set isolation", err)
		return
	}
	writeActionResult(w, result)
}

func (h *Isolation) History(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	deviceID, err := request.RequireQuery(r, "deviceId")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.svc.History(r.Context(), user, deviceID)
	if err != nil {
		writeError(w, r, "isolation history", err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func writeActionResult(w http.ResponseWriter, result *security.ActionResult) {
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": result.Message,
		"taskId":  result.TaskID,
	})
}
