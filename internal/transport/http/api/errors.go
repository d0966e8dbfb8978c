package api

import (
	"errors"
	"log/slog"
	"net/http"

	"workforce/internal/domain/apperr"
	"workforce/internal/platform/requestctx"
)

var kindStatus = map[apperr.Kind]int{
	apperr.KindUnauthenticated:   http.StatusUnauthorized,
	apperr.KindForbidden:         http.StatusForbidden,
	apperr.KindValidation:        http.StatusBadRequest,
	apperr.KindConflict:          http.StatusConflict,
	apperr.KindNotFound:          http.StatusNotFound,
	apperr.KindParentNotFound:    http.StatusUnprocessableEntity,
	apperr.KindInvalidCredential: http.StatusUnauthorized,
	apperr.KindPayloadTooLarge:   http.StatusRequestEntityTooLarge,
	apperr.KindInternal:          http.StatusInternalServerError,
}

// StatusFor returns the HTTP status of a domain error kind.
func StatusFor(kind apperr.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteError renders err in the envelope. Errors without a kind are treated
// as internal: the message stays generic and the cause is only logged, and
// echoed in details.debug when debug is set.
func WriteError(w http.ResponseWriter, r *http.Request, err error, debug bool) {
	requestID := requestctx.GetRequestID(r.Context())

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = &apperr.Error{Kind: apperr.KindInternal, Message: "internal error", Err: err}
	}
	status := StatusFor(appErr.Kind)

	details := map[string]any{}
	if len(appErr.Fields) > 0 {
		details["fields"] = appErr.Fields
	}
	message := appErr.Message
	if appErr.Kind == apperr.KindInternal {
		message = "internal error"
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"requestId", requestID,
			"err", err,
		)
		if debug && err != nil {
			details["debug"] = err.Error()
		}
	}
	if len(details) == 0 {
		details = nil
	}
	FailWithDetails(w, status, appErr.MachineCode(), message, details, requestID)
}
