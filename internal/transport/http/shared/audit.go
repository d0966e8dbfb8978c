package shared

import (
	"net/http"

	"workforce/internal/domain/audit"
	"workforce/internal/platform/requestctx"
	"workforce/internal/transport/http/middleware"
)

// Audit records a mutation performed by the authenticated caller of r.
func Audit(r *http.Request, action, entityType string, entityID int64, details map[string]any) {
	identity, _ := middleware.GetIdentity(r.Context())
	audit.Record(r.Context(), audit.Event{
		ActorID:    identity.AccountID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestctx.GetRequestID(r.Context()),
		IP:         middleware.ClientIP(r),
		Details:    details,
	})
}
