package handler

import (
	"net/http"

	"github.com/edvin/clinicguard/internal/api/response"
	"github.com/edvin/clinicguard/internal/security"
)

type Stats struct {
	svc *security.StatsAggregator
}

func NewStats(services *security.Services) *Stats {
	return &Stats{svc: services.Stats}
}

func (h *Stats) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(r.Context(), user)
	if err != nil {
		writeError(w, r, "security stats", err)
		return
	}
	response.WriteJSON(w, http.StatusOK, stats)
}
