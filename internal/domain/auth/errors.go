package auth

import "workforce/internal/domain/apperr"

var (
	ErrTokenMissing      = apperr.New(apperr.KindUnauthenticated, "unauthenticated", "authentication required")
	ErrTokenExpired      = apperr.New(apperr.KindUnauthenticated, "token_expired", "token expired")
	ErrTokenMalformed    = apperr.New(apperr.KindUnauthenticated, "token_malformed", "token malformed")
	ErrTokenBadSignature = apperr.New(apperr.KindUnauthenticated, "token_bad_signature", "token signature invalid")
	ErrTokenRevoked      = apperr.New(apperr.KindUnauthenticated, "token_revoked", "token revoked")

	ErrInvalidCredential = apperr.New(apperr.KindInvalidCredential, "invalid_credentials", "invalid credentials")
	ErrMFARequired       = apperr.New(apperr.KindUnauthenticated, "mfa_required", "mfa code required")
	ErrMFAMissing        = apperr.New(apperr.KindValidation, "mfa_missing", "mfa setup required")
	ErrMFAInvalid        = apperr.New(apperr.KindValidation, "mfa_invalid", "invalid mfa code")
	ErrMFAUnavailable    = apperr.New(apperr.KindValidation, "mfa_unavailable", "mfa requires encryption key")
	ErrMFAEnabled        = apperr.New(apperr.KindValidation, "mfa_already_enabled", "disable mfa before setting it up again")
)
