package handler

import (
	"fmt"
	"net/http"

	"github.com/edvin/clinicguard/internal/api/request"
	"github.com/edvin/clinicguard/internal/api/response"
	"github.com/edvin/clinicguard/internal/security"
)

type Register struct {
	svc *security.Provisioner
}

func NewRegister(services *security.Services) *Register {
	return &Register{svc: services.Provisioner}
}

func (h *Register) Status(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]bool{"isRegistered": user.HasTenant()})
}

func (h *Register) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.RegisterTenant
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reg, err := h.svc.Register(r.Context(), user, req.Name, req.Phone)
	if err != nil {
		writeError(w, r, "register tenant", err)
		return
	}

	message := "Tenant criado com sucesso"
	if reg.Renamed {
		message = fmt.Sprintf("Tenant criado com sucesso como %q (o nome %q já estava em uso)", reg.Tenant.Name, req.Name)
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"tenant":     reg.Tenant,
		"activation": reg.Activation.String(),
		"message":    message,
	})
}
