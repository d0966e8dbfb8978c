package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"workforce/internal/domain/apperr"
)

// The schema declares foreign keys without ON DELETE actions. Every parent
// delete below detaches or removes its children explicitly inside a single
// transaction, so a step forgotten here surfaces as a 23503 instead of a
// silently orphaned row.
//
//	account    -> employee cascade
//	employee   -> attendance, payroll, reviews (subject and reviewer) cascade
//	employee   -> departments.head_id set null
//	department -> employees.department_id set null

func (s *Store) DeleteAccount(ctx context.Context, id int64) (CascadeReport, error) {
	var report CascadeReport
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return report, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	if err := lockRow(ctx, tx, "SELECT id FROM accounts WHERE id = $1 FOR UPDATE", id, "account"); err != nil {
		return report, err
	}

	var employeeID int64
	err = tx.QueryRow(ctx, "SELECT id FROM employees WHERE account_id = $1 FOR UPDATE", id).Scan(&employeeID)
	switch {
	case err == nil:
		if err := deleteEmployeeTx(ctx, tx, employeeID, &report); err != nil {
			return report, err
		}
	case !errors.Is(err, pgx.ErrNoRows):
		return report, apperr.FromStore(err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return report, apperr.FromStore(err)
	}
	report.Accounts = tag.RowsAffected()

	if err := tx.Commit(ctx); err != nil {
		return CascadeReport{}, apperr.FromStore(err)
	}
	return report, nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) (CascadeReport, error) {
	var report CascadeReport
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return report, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	if err := lockRow(ctx, tx, "SELECT id FROM employees WHERE id = $1 FOR UPDATE", id, "employee"); err != nil {
		return report, err
	}
	if err := deleteEmployeeTx(ctx, tx, id, &report); err != nil {
		return report, err
	}
	if err := tx.Commit(ctx); err != nil {
		return CascadeReport{}, apperr.FromStore(err)
	}
	return report, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id int64) (CascadeReport, error) {
	var report CascadeReport
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return report, apperr.Internal(err)
	}
	defer tx.Rollback(ctx)

	if err := lockRow(ctx, tx, "SELECT id FROM departments WHERE id = $1 FOR UPDATE", id, "department"); err != nil {
		return report, err
	}

	tag, err := tx.Exec(ctx, "UPDATE employees SET department_id = NULL, updated_at = now() WHERE department_id = $1", id)
	if err != nil {
		return report, apperr.FromStore(err)
	}
	report.EmployeesUnassigned = tag.RowsAffected()

	tag, err = tx.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return report, apperr.FromStore(err)
	}
	report.Departments = tag.RowsAffected()

	if err := tx.Commit(ctx); err != nil {
		return CascadeReport{}, apperr.FromStore(err)
	}
	return report, nil
}

// deleteEmployeeTx expects the employee row to be locked by the caller.
func deleteEmployeeTx(ctx context.Context, tx pgx.Tx, id int64, report *CascadeReport) error {
	steps := []struct {
		sql     string
		counter *int64
	}{
		{"UPDATE departments SET head_id = NULL, updated_at = now() WHERE head_id = $1", &report.HeadsCleared},
		{"DELETE FROM performance_reviews WHERE employee_id = $1 OR reviewer_id = $1", &report.Reviews},
		{"DELETE FROM payroll WHERE employee_id = $1", &report.Payroll},
		{"DELETE FROM attendance WHERE employee_id = $1", &report.Attendance},
		{"DELETE FROM employees WHERE id = $1", &report.Employees},
	}
	for _, step := range steps {
		tag, err := tx.Exec(ctx, step.sql, id)
		if err != nil {
			return apperr.FromStore(err)
		}
		*step.counter += tag.RowsAffected()
	}
	return nil
}

func lockRow(ctx context.Context, tx pgx.Tx, query string, id int64, entity string) error {
	var locked int64
	if err := tx.QueryRow(ctx, query, id).Scan(&locked); err != nil {
		return storeErr(err, entity)
	}
	return nil
}
