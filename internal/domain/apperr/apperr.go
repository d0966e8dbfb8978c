package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	KindUnauthenticated   Kind = "unauthenticated"
	KindForbidden         Kind = "forbidden"
	KindValidation        Kind = "validation_error"
	KindConflict          Kind = "conflict"
	KindNotFound          Kind = "not_found"
	KindParentNotFound    Kind = "parent_not_found"
	KindInvalidCredential Kind = "invalid_credentials"
	KindPayloadTooLarge   Kind = "payload_too_large"
	KindInternal          Kind = "internal_error"
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is the single error shape crossing the domain/transport boundary.
// Code refines Kind for callers that need a more specific machine code
// (token_expired, mfa_required); it defaults to the kind.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldIssue
	Err     error

	sentinel bool
}

var (
	ErrUnauthenticated   = sentinel(KindUnauthenticated, "authentication required")
	ErrForbidden         = sentinel(KindForbidden, "insufficient permissions")
	ErrValidation        = sentinel(KindValidation, "payload validation failed")
	ErrConflict          = sentinel(KindConflict, "resource already exists")
	ErrNotFound          = sentinel(KindNotFound, "resource not found")
	ErrParentNotFound    = sentinel(KindParentNotFound, "referenced record not found")
	ErrInvalidCredential = sentinel(KindInvalidCredential, "invalid credentials")
	ErrPayloadTooLarge   = sentinel(KindPayloadTooLarge, "request body too large")
	ErrInternal          = sentinel(KindInternal, "internal error")
)

func sentinel(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, sentinel: true}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, f := range e.Fields {
		b.WriteString(fmt.Sprintf("; %s: %s", f.Field, f.Reason))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, apperr.ErrConflict) match any error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.sentinel && t.Kind == e.Kind
}

func (e *Error) MachineCode() string {
	if e.Code != "" {
		return e.Code
	}
	return string(e.Kind)
}

// Field is the first offending field, if any.
func (e *Error) Field() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Field
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(field, reason string) error {
	return &Error{Kind: KindValidation, Message: "payload validation failed", Fields: []FieldIssue{{Field: field, Reason: reason}}}
}

func Conflict(field, reason string) error {
	return &Error{Kind: KindConflict, Message: reason, Fields: []FieldIssue{{Field: field, Reason: reason}}}
}

func NotFound(entity string) error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func ParentNotFound(field, reason string) error {
	return &Error{Kind: KindParentNotFound, Message: reason, Fields: []FieldIssue{{Field: field, Reason: reason}}}
}

func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Internal(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Issues collects field-level validation problems before failing once.
type Issues []FieldIssue

func (i *Issues) Add(field, reason string) {
	*i = append(*i, FieldIssue{Field: field, Reason: reason})
}

func (i Issues) Err() error {
	if len(i) == 0 {
		return nil
	}
	out := make([]FieldIssue, len(i))
	copy(out, i)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Field == out[b].Field {
			return out[a].Reason < out[b].Reason
		}
		return out[a].Field < out[b].Field
	})
	return &Error{Kind: KindValidation, Message: "payload validation failed", Fields: out}
}
