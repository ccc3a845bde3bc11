package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/clinicguard/internal/acronis"
	"github.com/edvin/clinicguard/internal/security"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "world", body["hello"])
}

func TestWriteError_OmitsEmptyCode(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadRequest, "something went wrong")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"something went wrong"}`, w.Body.String())
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", &security.Error{Kind: security.KindInvalid, Code: security.CodeNoTenant, Message: "m"}, http.StatusBadRequest, security.CodeNoTenant},
		{"plan limit", &security.Error{Kind: security.KindConflict, Code: security.CodePlanLimitReached, Message: "m"}, http.StatusBadRequest, security.CodePlanLimitReached},
		{"name conflict", &security.Error{Kind: security.KindConflict, Code: security.CodeNameConflict, Message: "m"}, http.StatusConflict, security.CodeNameConflict},
		{"not found", &security.Error{Kind: security.KindNotFound, Code: security.CodeNoBackup, Message: "m"}, http.StatusNotFound, security.CodeNoBackup},
		{"config", &security.Error{Kind: security.KindConfig, Message: "m"}, http.StatusServiceUnavailable, ""},
		{"wrapped domain", fmt.Errorf("outer: %w", &security.Error{Kind: security.KindInvalid, Code: "X", Message: "m"}), http.StatusBadRequest, "X"},
		{"vendor not configured", fmt.Errorf("list: %w", acronis.ErrNotConfigured), http.StatusServiceUnavailable, ""},
		{"vendor failure", &acronis.APIError{Status: 502, Body: "bad gateway"}, http.StatusInternalServerError, ""},
		{"plain", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteServiceError(w, tt.err)
			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}
