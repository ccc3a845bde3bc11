package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	mw "github.com/edvin/clinicguard/internal/api/middleware"
	"github.com/edvin/clinicguard/internal/model"
)

// newRequest creates a new HTTP request with an optional JSON body.
func newRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// newRequestRaw creates a new HTTP request with a raw string body.
func newRequestRaw(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withUser injects a session user into the request context.
func withUser(r *http.Request, user *model.User) *http.Request {
	return r.WithContext(mw.WithUser(r.Context(), user))
}

func testUser() *model.User {
	tenant := "tenant-1"
	return &model.User{ID: "user-1", Email: "ana@clinica.com", Plan: model.PlanBasic, AcronisTenantID: &tenant}
}

// decodeErrorResponse parses the JSON error response body into a map.
func decodeErrorResponse(rec *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	return body
}
