package attendancehandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/auth"
	"workforce/internal/transport/http/middleware"
)

func TestAttendanceRequestsRejectedEarly(t *testing.T) {
	tests := []struct {
		name   string
		role   auth.Role
		method string
		path   string
		body   string
		status int
		want   string
	}{
		{name: "date required", role: auth.RoleHR, method: http.MethodPost, path: "/attendance", body: `{"employeeId":1}`, status: http.StatusBadRequest, want: `"date"`},
		{name: "unparseable date", role: auth.RoleHR, method: http.MethodPost, path: "/attendance", body: `{"employeeId":1,"date":"yesterday"}`, status: http.StatusBadRequest, want: `"date"`},
		{name: "unknown status", role: auth.RoleHR, method: http.MethodPost, path: "/attendance", body: `{"employeeId":1,"date":"2026-03-02","status":"vacation"}`, status: http.StatusBadRequest, want: `"status"`},
		{name: "bad from filter", role: auth.RoleAdmin, method: http.MethodGet, path: "/attendance?from=march", status: http.StatusBadRequest, want: `"from"`},
		{name: "employee cannot create", role: auth.RoleEmployee, method: http.MethodPost, path: "/attendance", body: `{}`, status: http.StatusForbidden, want: "forbidden"},
		{name: "hr cannot delete", role: auth.RoleHR, method: http.MethodDelete, path: "/attendance/3", status: http.StatusForbidden, want: "forbidden"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					ctx := middleware.WithIdentity(req.Context(), auth.Identity{AccountID: 1, Role: tc.role})
					next.ServeHTTP(w, req.WithContext(ctx))
				})
			})
			NewHandler(nil, nil, false).RegisterRoutes(r)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tc.want) {
				t.Fatalf("expected %s in %s", tc.want, rec.Body.String())
			}
		})
	}
}
