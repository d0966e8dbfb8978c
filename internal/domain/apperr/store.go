package apperr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgInvalidText         = "22P02"
	pgNumericOutOfRange   = "22003"
)

// constraintFields maps the constraint names declared in the migrations to
// the API field a caller has to correct.
var constraintFields = map[string]string{
	"accounts_email_key":                   "email",
	"accounts_role_check":                  "role",
	"employees_email_key":                  "email",
	"employees_account_id_key":             "accountId",
	"employees_account_id_fkey":            "accountId",
	"employees_department_id_fkey":         "departmentId",
	"employees_status_check":               "status",
	"employees_salary_check":               "salary",
	"departments_name_key":                 "name",
	"departments_head_id_fkey":             "headId",
	"departments_budget_check":             "budget",
	"attendance_employee_id_fkey":          "employeeId",
	"attendance_status_check":              "status",
	"attendance_times_check":               "checkOutTime",
	"payroll_employee_id_fkey":             "employeeId",
	"payroll_month_check":                  "month",
	"payroll_year_check":                   "year",
	"payroll_status_check":                 "status",
	"payroll_components_check":             "baseSalary",
	"performance_reviews_employee_id_fkey": "employeeId",
	"performance_reviews_reviewer_id_fkey": "reviewerId",
	"performance_reviews_not_self_check":   "reviewerId",
	"performance_reviews_rating_check":     "rating",
	"performance_reviews_scores_check":     "rating",
	"performance_reviews_status_check":     "status",
}

// FromStore translates driver errors into the taxonomy. Errors that already
// carry a kind pass through untouched.
func FromStore(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &Error{Kind: KindNotFound, Message: "resource not found", Err: err}
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return Internal(err)
	}
	field := constraintFields[pgErr.ConstraintName]
	if field == "" {
		field = pgErr.ColumnName
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return &Error{Kind: KindConflict, Message: field + " already exists", Fields: []FieldIssue{{Field: field, Reason: "already exists"}}, Err: err}
	case pgForeignKeyViolation:
		return &Error{Kind: KindParentNotFound, Message: "referenced record not found", Fields: []FieldIssue{{Field: field, Reason: "references a record that does not exist"}}, Err: err}
	case pgCheckViolation, pgNotNullViolation:
		return &Error{Kind: KindValidation, Message: "payload validation failed", Fields: []FieldIssue{{Field: field, Reason: "violates constraint " + pgErr.ConstraintName}}, Err: err}
	case pgInvalidText, pgNumericOutOfRange:
		return &Error{Kind: KindValidation, Message: "payload validation failed", Fields: []FieldIssue{{Field: field, Reason: "invalid value"}}, Err: err}
	}
	return Internal(err)
}
