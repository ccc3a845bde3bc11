package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	mw "github.com/edvin/clinicguard/internal/api/middleware"
	"github.com/edvin/clinicguard/internal/api/request"
	"github.com/edvin/clinicguard/internal/api/response"
	"github.com/edvin/clinicguard/internal/core"
	"github.com/edvin/clinicguard/internal/model"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, *model.User, error)
}

type Auth struct {
	svc           Authenticator
	secureCookies bool
}

func NewAuth(svc Authenticator, secureCookies bool) *Auth {
	return &Auth{svc: svc, secureCookies: secureCookies}
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req request.Login
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, core.ErrInvalidCredentials) {
		response.WriteError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		writeError(w, r, "login", err)
		return
	}

	http.SetCookie(w, h.cookie(token, time.Now().Add(core.SessionTTL)))
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	c := h.cookie("", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(w, c)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Auth) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
