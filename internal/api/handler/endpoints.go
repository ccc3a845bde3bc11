package handler

import (
	"net/http"

	"github.com/edvin/clinicguard/internal/api/request"
	"github.com/edvin/clinicguard/internal/api/response"
	"github.com/edvin/clinicguard/internal/security"
)

type Endpoints struct {
	svc *security.EndpointRegistry
}

func NewEndpoints(services *security.Services) *Endpoints {
	return &Endpoints{svc: services.Endpoints}
}

func (h *Endpoints) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.svc.List(r.Context(), user)
	if err != nil {
		writeError(w, r, "list endpoints", err)
		return
	}
	response.WriteJSON(w, http.StatusOK, list)
}

func (h *Endpoints) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateEndpoint
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	endpoint, err := h.svc.Create(r.Context(), user, req.Name, req.OS)
	if err != nil {
		writeError(w, r, "create endpoint", err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":  "Dispositivo registrado com sucesso",
		"endpoint": endpoint,
	})
}

func (h *Endpoints) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	id, err := request.RequireQuery(r, "id")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), user, id); err != nil {
		writeError(w, r, "delete endpoint", err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "Dispositivo removido com sucesso"})
}
