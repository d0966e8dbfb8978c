package middleware

import (
	"log/slog"
	"net/http"

	"workforce/internal/domain/auth"
	"workforce/internal/transport/http/api"
)

// RequireCapability admits the request only when the caller's role is in
// the operation's role set. It must run after Authenticate.
func RequireCapability(op auth.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthenticated", "authentication required", GetRequestID(r.Context()))
				return
			}
			if !auth.Allowed(identity.Role, op) {
				slog.Info("capability denied", "accountId", identity.AccountID, "role", identity.Role, "op", op)
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
