package handler

import (
	"net/http"

	"github.com/edvin/clinicguard/internal/api/request"
	"github.com/edvin/clinicguard/internal/api/response"
	"github.com/edvin/clinicguard/internal/security"
)

type Bitdefender struct {
	svc *security.BitdefenderService
}

func NewBitdefender(services *security.Services) *Bitdefender {
	return &Bitdefender{svc: services.Bitdefender}
}

func (h *Bitdefender) ListEndpoints(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.svc.ListEndpoints(r.Context(), user)
	if err != nil {
		writeError(w, r, "list bitdefender endpoints", err)
		return
	}
	response.WriteJSON(w, http.StatusOK, list)
}

func (h *Bitdefender) CreateEndpoint(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateEndpoint
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	endpoint, err := h.svc.CreateEndpoint(r.Context(), user, req.Name, req.OS)
	if err != nil {
		writeError(w, r, "create bitdefender endpoint", err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"endpoint": endpoint,
	})
}

// Stats never fails; vendor errors degrade to zeroed counters.
func (h *Bitdefender) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	response.WriteJSON(w, http.StatusOK, h.svc.Stats(r.Context(), user))
}

func (h *Bitdefender) Policies(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	policies, err := h.svc.Policies(r.Context(), user)
	if err != nil {
		writeError(w, r, "list bitdefender policies", err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"policies": policies})
}
