package shared

import (
	"context"
	"errors"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/auth"
)

type SubjectResolver interface {
	ResolveSubject(ctx context.Context, caller auth.Identity) (int64, error)
}

// Scope returns nil for callers that see every row, and the caller's own
// employee id for roles restricted to their own records. A restricted caller
// without an employee record gets id 0, which matches no row.
func Scope(ctx context.Context, resolver SubjectResolver, caller auth.Identity) (*int64, error) {
	if !auth.Scoped(caller.Role) {
		return nil, nil
	}
	id, err := resolver.ResolveSubject(ctx, caller)
	if errors.Is(err, apperr.ErrNotFound) {
		var none int64
		return &none, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}
