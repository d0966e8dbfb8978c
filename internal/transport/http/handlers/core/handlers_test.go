package corehandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/auth"
	"workforce/internal/transport/http/middleware"
)

func newRouter(h *Handler, identity auth.Identity) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithIdentity(req.Context(), identity)))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func fieldsOf(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string]bool) {
	t.Helper()
	var env struct {
		Error *struct {
			Code    string `json:"code"`
			Details struct {
				Fields []struct {
					Field string `json:"field"`
				} `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error == nil {
		t.Fatal("expected an error envelope")
	}
	fields := map[string]bool{}
	for _, f := range env.Error.Details.Fields {
		fields[f.Field] = true
	}
	return env.Error.Code, fields
}

// Every case is rejected before the service is reached, so the handler runs
// without one.
func TestEmployeeRequestsRejectedEarly(t *testing.T) {
	hr := auth.Identity{AccountID: 1, Role: auth.RoleHR}
	employee := auth.Identity{AccountID: 2, Role: auth.RoleEmployee}

	tests := []struct {
		name     string
		identity auth.Identity
		method   string
		path     string
		body     string
		status   int
		code     string
		fields   []string
	}{
		{
			name: "missing name and bad email", identity: hr, method: http.MethodPost, path: "/employees",
			body: `{"name":"","email":"nope"}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"name", "email"},
		},
		{
			name: "unknown field", identity: hr, method: http.MethodPost, path: "/employees",
			body: `{"name":"A","email":"a@example.com","role":"admin"}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"role"},
		},
		{
			name: "bad status", identity: hr, method: http.MethodPost, path: "/employees",
			body: `{"name":"A","email":"a@example.com","status":"retired"}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"status"},
		},
		{
			name: "bad joining date", identity: hr, method: http.MethodPost, path: "/employees",
			body: `{"name":"A","email":"a@example.com","joiningDate":"03/02/2026"}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"joiningDate"},
		},
		{
			name: "employee cannot create", identity: employee, method: http.MethodPost, path: "/employees",
			body: `{"name":"A","email":"a@example.com"}`, status: http.StatusForbidden, code: "forbidden",
		},
		{
			name: "hr cannot delete", identity: hr, method: http.MethodDelete, path: "/employees/4",
			status: http.StatusForbidden, code: "forbidden",
		},
		{
			name: "non numeric id", identity: hr, method: http.MethodGet, path: "/employees/abc",
			status: http.StatusNotFound, code: "not_found",
		},
		{
			name: "department without name", identity: hr, method: http.MethodPost, path: "/departments",
			body: `{"description":"x"}`, status: http.StatusBadRequest, code: "validation_error", fields: []string{"name"},
		},
		{
			name: "employee cannot patch department", identity: employee, method: http.MethodPatch, path: "/departments/3",
			body: `{"headId":null}`, status: http.StatusForbidden, code: "forbidden",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			handler := newRouter(NewHandler(nil, false), tc.identity)
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			code, fields := fieldsOf(t, rec)
			if code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, code)
			}
			for _, f := range tc.fields {
				if !fields[f] {
					t.Fatalf("expected field %s in %v", f, fields)
				}
			}
		})
	}
}
